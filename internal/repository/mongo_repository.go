package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/siddharth-200231/ADProject/internal/domain"
)

// sessionCartTTL is how long an untouched anonymous cart survives
// before MongoDB expires it. User carts never expire.
const sessionCartTTL = 30 * 24 * time.Hour

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return &mongoRepository{
		collection: db.Collection("carts"),
	}
}

func (m *mongoRepository) FindByOwner(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	return m.findOne(ctx, bson.M{"owner_key": owner.Key()})
}

func (m *mongoRepository) FindByItemID(ctx context.Context, itemID string) (*domain.Cart, error) {
	return m.findOne(ctx, bson.M{"items.id": itemID})
}

func (m *mongoRepository) findOne(ctx context.Context, filter bson.M) (*domain.Cart, error) {
	var cart domain.Cart
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return &cart, nil
}

func (m *mongoRepository) Insert(ctx context.Context, cart *domain.Cart) error {
	if cart.ID == "" {
		cart.ID = primitive.NewObjectID().Hex()
	}
	cart.Version = 1

	_, err := m.collection.InsertOne(ctx, cart)
	if err != nil {
		// The unique owner_key index is the authority for the
		// one-cart-per-owner invariant; losers of a create race land here.
		if mongo.IsDuplicateKeyError(err) {
			return ErrCartExists
		}
		return fmt.Errorf("failed to insert cart: %w", err)
	}
	return nil
}

func (m *mongoRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return m.save(ctx, cart)
}

func (m *mongoRepository) Delete(ctx context.Context, cart *domain.Cart) error {
	return m.delete(ctx, cart)
}

// Transfer replaces dest and removes source as a single MongoDB
// transaction, so observers never see the items in both carts or in
// neither. Requires a replica set.
func (m *mongoRepository) Transfer(ctx context.Context, source, dest *domain.Cart) error {
	session, err := m.collection.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := m.save(sc, dest); err != nil {
			return nil, err
		}
		if err := m.delete(sc, source); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (m *mongoRepository) save(ctx context.Context, cart *domain.Cart) error {
	filter := bson.M{"_id": cart.ID, "version": cart.Version}

	replacement := *cart
	replacement.Version = cart.Version + 1
	replacement.UpdatedAt = time.Now()

	result, err := m.collection.ReplaceOne(ctx, filter, &replacement)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrStaleCart
	}

	cart.Version = replacement.Version
	cart.UpdatedAt = replacement.UpdatedAt
	return nil
}

func (m *mongoRepository) delete(ctx context.Context, cart *domain.Cart) error {
	filter := bson.M{"_id": cart.ID, "version": cart.Version}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrStaleCart
	}
	return nil
}

// EnsureIndexes creates the cart collection's indexes when the
// repository is Mongo-backed; other implementations need none.
func EnsureIndexes(ctx context.Context, repo CartRepository) error {
	if m, ok := repo.(*mongoRepository); ok {
		return m.CreateIndexes(ctx)
	}
	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "items.id", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys: bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(int32(sessionCartTTL / time.Second)).
				SetPartialFilterExpression(bson.M{"user_cart": false}),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
