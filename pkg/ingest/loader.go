package ingest

import (
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
)

// LoadOpenAPI loads an OpenAPI document from a local file path or an
// HTTP(S) URL.
func LoadOpenAPI(input string) (*openapi3.T, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	return loadWithLoader(loader, input)
}

func loadWithLoader(loader *openapi3.Loader, input string) (*openapi3.T, error) {
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return loader.LoadFromURI(u)
	}
	return loader.LoadFromFile(input)
}

// ValidateOpenAPI loads and validates an OpenAPI document.
func ValidateOpenAPI(input string) error {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := loadWithLoader(loader, input)
	if err != nil {
		return err
	}
	return doc.Validate(loader.Context)
}
