package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vanshika/dronepath/internal/domain"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

const (
	defaultMongoDatabase   = "dronepath"
	defaultMongoCollection = "waypoints"
	defaultMongoTimeout    = 10 * time.Second
)

// waypointDoc is the stored form of a node. Position preserves declaration order.
type waypointDoc struct {
	Label    string        `bson:"label"`
	Position int           `bson:"position"`
	Edges    []domain.Edge `bson:"edges"`
}

// MongoStore keeps one document per waypoint in a MongoDB collection.
// It implements Source for serving and ReplaceGraph for ingest.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	writer     waypointWriter
	tx         transactor
}

type waypointWriter interface {
	DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	InsertMany(ctx context.Context, documents []any, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

type transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// sessionTransactor runs fn in a multi-document transaction. MongoDB only
// supports these on replica sets and sharded clusters.
type sessionTransactor struct {
	client *mongo.Client
}

func (t sessionTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

// NewMongoStore connects to MongoDB and verifies the primary is reachable.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = defaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = defaultMongoCollection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultMongoTimeout
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(opts.Timeout).
		SetServerSelectionTimeout(opts.Timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	collection := client.Database(opts.Database).Collection(opts.Collection)
	return &MongoStore{
		client:     client,
		collection: collection,
		writer:     collection,
		tx:         sessionTransactor{client: client},
	}, nil
}

// Load reads every waypoint ordered by position.
func (s *MongoStore) Load(ctx context.Context) (domain.Graph, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := s.collection.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("find waypoints: %w", err)
	}
	defer cur.Close(ctx)

	var docs []waypointDoc
	if err := cur.All(ctx, &docs); err != nil {
		return domain.Graph{}, fmt.Errorf("decode waypoints: %w", err)
	}
	return graphFromDocs(docs), nil
}

// ReplaceGraph drops the stored waypoints and inserts g in one transaction,
// so readers never observe an empty collection.
func (s *MongoStore) ReplaceGraph(ctx context.Context, g domain.Graph) error {
	if len(g.Nodes) == 0 {
		return errors.New("graph has no waypoints")
	}

	docs := docsFromGraph(g)
	batch := make([]any, 0, len(docs))
	for _, d := range docs {
		batch = append(batch, d)
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.writer.DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("clear waypoints: %w", err)
		}
		if _, err := s.writer.InsertMany(ctx, batch); err != nil {
			return fmt.Errorf("insert waypoints: %w", err)
		}
		return nil
	})
}

func (s *MongoStore) Probe(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func docsFromGraph(g domain.Graph) []waypointDoc {
	docs := make([]waypointDoc, 0, len(g.Nodes))
	for i, n := range g.Nodes {
		edges := n.Edges
		if edges == nil {
			edges = []domain.Edge{}
		}
		docs = append(docs, waypointDoc{Label: n.Label, Position: i, Edges: edges})
	}
	return docs
}

func graphFromDocs(docs []waypointDoc) domain.Graph {
	g := domain.Graph{Nodes: make([]domain.Node, 0, len(docs))}
	for _, d := range docs {
		if d.Label == "" {
			continue
		}
		g.Nodes = append(g.Nodes, domain.Node{Label: d.Label, Edges: d.Edges})
	}
	return g
}
