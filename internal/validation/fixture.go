package validation

import (
	_ "embed"
	"sync"
)

//go:embed schemas/catalog_fixture.schema.json
var catalogFixtureSchema []byte

var catalogFixture = sync.OnceValues(func() (*Schema, error) {
	return Compile("catalog_fixture.schema.json", catalogFixtureSchema)
})

// ValidateCatalogFixture checks a decoded seed fixture against the embedded
// catalog fixture schema.
func ValidateCatalogFixture(document any) error {
	schema, err := catalogFixture()
	if err != nil {
		return err
	}
	return schema.Validate(document)
}
