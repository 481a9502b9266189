package dataset

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig locates the Semantic Scholar paper collection. The defaults
// preserve the endpoint the upstream reader hard-coded; passing the settings
// at construction time is what makes test doubles and multiple environments
// possible.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

const (
	defaultMongoURI        = "mongodb://10.243.98.93:27017"
	defaultMongoDatabase   = "semanticscholar"
	defaultMongoCollection = "papers"
)

func (cfg MongoConfig) withDefaults() MongoConfig {
	if cfg.URI == "" {
		cfg.URI = defaultMongoURI
	}
	if cfg.Database == "" {
		cfg.Database = defaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = defaultMongoCollection
	}
	return cfg
}

type paperDocument struct {
	Title         string `bson:"title"`
	PaperAbstract string `bson:"paperAbstract"`
	Venue         string `bson:"venue"`
}

// SemanticScholarReader iterates every paper document in a Mongo collection
// in storage order and produces Instances with title, abstract, and the
// venue as a single categorical label. An unreachable endpoint is fatal on
// first pull; there are no retries and no partial results.
type SemanticScholarReader struct {
	tokenizer Tokenizer
	indexer   string
	mongo     MongoConfig
}

func NewSemanticScholarReader(cfg ReaderConfig) *SemanticScholarReader {
	cfg = cfg.withDefaults()
	return &SemanticScholarReader{tokenizer: cfg.Tokenizer, indexer: cfg.Indexer, mongo: cfg.Mongo}
}

// Read ignores the source argument; the collection to read is part of the
// reader's configuration.
func (r *SemanticScholarReader) Read(ctx context.Context, _ string) iter.Seq2[*Instance, error] {
	return func(yield func(*Instance, error) bool) {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(r.mongo.URI))
		if err != nil {
			yield(nil, fmt.Errorf("error connecting to mongo at %s: %w", r.mongo.URI, err))
			return
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("error disconnecting from mongo", "error", err)
			}
		}()

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			yield(nil, fmt.Errorf("mongo endpoint %s unreachable: %w", r.mongo.URI, err))
			return
		}

		collection := client.Database(r.mongo.Database).Collection(r.mongo.Collection)
		cursor, err := collection.Find(ctx, bson.D{})
		if err != nil {
			yield(nil, fmt.Errorf("error querying collection %s: %w", r.mongo.Collection, err))
			return
		}
		defer cursor.Close(context.Background()) //nolint:errcheck

		bar := progressbar.Default(-1, "reading semantic scholar papers")
		defer bar.Finish() //nolint:errcheck

		for cursor.Next(ctx) {
			bar.Add(1) //nolint:errcheck

			var doc paperDocument
			if err := cursor.Decode(&doc); err != nil {
				yield(nil, fmt.Errorf("error decoding paper document: %w", err))
				return
			}
			// Deliberately broader than the upstream reader, which skipped
			// only empty documents and errored on ones missing a recognized
			// field: both decode to the zero value here and are skipped.
			if doc == (paperDocument{}) {
				continue
			}

			if !yield(r.TextToInstance(doc.Title, doc.PaperAbstract, doc.Venue), nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			yield(nil, fmt.Errorf("error iterating paper documents: %w", err))
		}
	}
}

// TextToInstance builds an Instance from a paper's raw fields. The venue is
// attached as a categorical label only when present; vocabulary resolution
// to an index happens framework-side.
func (r *SemanticScholarReader) TextToInstance(title, abstract, venue string) *Instance {
	fields := map[string]Field{
		TitleFieldName:    &TextField{Tokens: r.tokenizer.Tokenize(title), Indexer: r.indexer},
		AbstractFieldName: &TextField{Tokens: r.tokenizer.Tokenize(abstract), Indexer: r.indexer},
	}
	if venue != "" {
		fields[LabelFieldName] = &LabelField{Label: venue}
	}
	return NewInstance(fields)
}
