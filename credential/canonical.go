package credential

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/piprate/json-gold/ld"
)

const (
	ContextExamplesV1 = "https://www.w3.org/2018/credentials/examples/v1"

	nquadsFormat = "application/n-quads"
)

// embeddedContexts are served instead of fetching contexts over the network.
// They only map terms onto a vocabulary; enough to canonicalize what Issue
// produces.
var embeddedContexts = map[string]interface{}{
	ContextCredentialsV1: map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab": "https://www.w3.org/2018/credentials#",
			"id":     "@id",
			"type":   "@type",
		},
	},
	ContextExamplesV1: map[string]interface{}{
		"@context": map[string]interface{}{
			"@vocab": "https://www.w3.org/2018/credentials/examples#",
		},
	},
}

// offlineLoader refuses every document not preloaded into the cache.
type offlineLoader struct{}

func (offlineLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, fmt.Sprintf("context %s is not available offline", u))
}

// NewDocumentLoader returns a loader that serves the embedded contexts and
// fails for anything else.
func NewDocumentLoader() ld.DocumentLoader {
	loader := ld.NewCachingDocumentLoader(offlineLoader{})
	for u, doc := range embeddedContexts {
		loader.AddDocument(u, doc)
	}
	return loader
}

var defaultDocumentLoader = NewDocumentLoader()

// Canonicalize returns the URDNA2015 N-Quads of vc without its proof.
func Canonicalize(vc *Credential) ([]byte, error) {
	m, err := ToJSONMap(vc)
	if err != nil {
		return nil, err
	}

	opts := ld.NewJsonLdOptions("")
	opts.ProcessingMode = ld.JsonLd_1_1
	opts.Format = nquadsFormat
	opts.Algorithm = ld.AlgorithmURDNA2015
	opts.DocumentLoader = defaultDocumentLoader

	view, err := ld.NewJsonLdProcessor().Normalize(map[string]interface{}(m.WithoutProof()), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize credential: %w", err)
	}

	result, ok := view.(string)
	if !ok {
		return nil, fmt.Errorf("failed to normalize credential: unexpected view %T", view)
	}
	return []byte(result), nil
}

// Digest returns the hex SHA-256 of the canonical form of vc.
func Digest(vc *Credential) (string, error) {
	canonical, err := Canonicalize(vc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
