// Package schemas embeds the JSON schemas for the wire protocol and the save
// summary so that binaries can validate documents without a checkout.
package schemas

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed *.schema.json
var files embed.FS

const (
	Hello   = "hello.schema.json"
	Welcome = "welcome.schema.json"
	Act     = "act.schema.json"
	Ack     = "ack.schema.json"
	View    = "view.schema.json"
	Save    = "save.schema.json"
)

// Compile compiles one embedded schema by file name.
func Compile(name string) (*jsonschema.Schema, error) {
	raw, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	s, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	return s, nil
}

// MustCompile is Compile for package-level schema variables.
func MustCompile(name string) *jsonschema.Schema {
	s, err := Compile(name)
	if err != nil {
		panic(err)
	}
	return s
}
