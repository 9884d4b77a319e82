package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"orbi/internal/domain"

	"gopkg.in/yaml.v3"
)

// DefaultSeed is used when generating a snapshot because no data file exists.
const DefaultSeed = 20241101

// LoadSnapshot reads the affiliate data JSON at path. When the file does not
// exist, a deterministic fixture snapshot is generated instead so the
// assistant always has data to answer from.
func LoadSnapshot(path string, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Info("affiliate data file not found, generating fixtures", "path", path, "seed", DefaultSeed)
		return Generate(DefaultSeed, logger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read affiliate data %s: %w", path, err)
	}

	var file affiliateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("cannot parse affiliate data %s: %w", path, err)
	}

	snap := NewSnapshot(file.Clients, file.AffiliateSites, file.PerformanceData, file.GeneratedAt, logger)
	logger.Info("affiliate data loaded",
		"path", path, "sites", len(snap.Sites), "records", len(snap.Records), "year", snap.Year)
	return snap, nil
}

// corpusFile is the YAML shape of the FAQ corpus.
type corpusFile struct {
	FAQs []domain.FAQEntry `yaml:"faqs"`
}

// LoadCorpus reads the FAQ corpus YAML at path, falling back to the embedded
// default corpus when path is empty or the file does not exist.
func LoadCorpus(path string, logger *slog.Logger) ([]domain.FAQEntry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			logger.Info("faq corpus file not found, using built-in corpus", "path", path)
		case err != nil:
			return nil, fmt.Errorf("cannot read faq corpus %s: %w", path, err)
		default:
			data = b
		}
	}
	if data == nil {
		data = defaultCorpus
	}

	var file corpusFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("cannot parse faq corpus: %w", err)
	}
	if len(file.FAQs) == 0 {
		return nil, fmt.Errorf("faq corpus is empty")
	}

	for i, entry := range file.FAQs {
		if entry.ID == "" || entry.Question == "" || entry.Answer == "" {
			return nil, fmt.Errorf("faq corpus entry %d: id, question and answer are required", i)
		}
	}

	logger.Info("faq corpus loaded", "entries", len(file.FAQs))
	return file.FAQs, nil
}
