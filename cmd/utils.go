package cmd

import (
	"flag"
	"log"

	"papers-backend/internal/dataset"

	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// ReaderSettings holds the env-configurable knobs shared by every process
// that instantiates dataset readers.
type ReaderSettings struct {
	TokenizerName   string `env:"READER_TOKENIZER" envDefault:""`
	LazyReaders     bool   `env:"LAZY_READERS" envDefault:"true"`
	MongoURI        string `env:"MONGO_URI" envDefault:""`
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:""`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:""`
}

// BuildReaderConfig turns the env settings into a dataset.ReaderConfig. An
// empty tokenizer name keeps the default whitespace word tokenizer; anything
// else is treated as a HuggingFace identifier or local tokenizer.json path.
func BuildReaderConfig(settings ReaderSettings) (dataset.ReaderConfig, error) {
	cfg := dataset.ReaderConfig{
		Lazy: settings.LazyReaders,
		Mongo: dataset.MongoConfig{
			URI:        settings.MongoURI,
			Database:   settings.MongoDatabase,
			Collection: settings.MongoCollection,
		},
	}

	if settings.TokenizerName != "" {
		tokenizer, err := dataset.NewPretrainedTokenizer(settings.TokenizerName)
		if err != nil {
			return dataset.ReaderConfig{}, err
		}
		cfg.Tokenizer = tokenizer
	}

	return cfg, nil
}
