package receipt

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// recordSchemaJSON is the canonical receipt schema. Numeric fields are
// plain numbers here because string coercion happens before validation
// (see coerceDocument).
const recordSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "vendorName": {"type": "string", "minLength": 1},
    "vendorAddress": {"type": "string"},
    "vendorPhone": {"type": "string"},
    "date": {"type": ["string", "null"]},
    "subtotal": {"type": "number"},
    "tax": {"type": "number"},
    "tip": {"type": "number"},
    "total": {"type": "number"},
    "currency": {"type": "string"},
    "paymentMethod": {"type": "string"},
    "invoiceNumber": {"type": "string"},
    "items": {
      "type": "array",
      "items": {"$ref": "#/$defs/lineItem"}
    },
    "notes": {"type": "string"},
    "ocrText": {"type": "string"}
  },
  "$defs": {
    "lineItem": {
      "type": "object",
      "required": ["description"],
      "properties": {
        "description": {"type": "string", "minLength": 1},
        "quantity": {"type": "number"},
        "unitPrice": {"type": "number"},
        "total": {"type": "number"},
        "sku": {"type": "string"},
        "category": {"type": "string"}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
)

// recordSchema returns the compiled canonical schema. The schema is a
// compile-time constant, so compilation failure is a programming error.
func recordSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("receipt.json", strings.NewReader(recordSchemaJSON)); err != nil {
			panic("receipt: add schema resource: " + err.Error())
		}
		compiledSchema = compiler.MustCompile("receipt.json")
	})
	return compiledSchema
}
