package dataset

import _ "embed"

// defaultCorpus ships with the binary so FAQ search works without any
// external data files.
//
//go:embed faq.yaml
var defaultCorpus []byte
