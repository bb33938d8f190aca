// Command formengine-cli works with template documents from the terminal:
// import an OpenAPI schema into a template, fill a template interactively,
// or render it as HTML.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine/pkg/forms"
	"github.com/goliatone/go-formengine/pkg/importer"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/tui"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
	"github.com/goliatone/go-formengine/pkg/repository/yamlstore"
)

const usage = `usage: formengine-cli <command> [flags]

commands:
  import  convert an OpenAPI component schema into a template document
  fill    fill a template interactively and print the asset payload
  render  render a template as HTML
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(os.Args[2:])
	case "fill":
		err = runFill(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("formengine-cli: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	source := fs.String("source", "", "OpenAPI document path")
	schema := fs.String("schema", "", "component schema name")
	entity := fs.String("entity", "PRODUCT", "entity type (PRODUCT, SUPPLIER, EQUIPMENT)")
	output := fs.String("output", "", "output file (stdout if empty)")
	_ = fs.Parse(args)

	raw, err := os.ReadFile(*source)
	if err != nil {
		return err
	}
	tpl, err := importer.New(importer.Options{}).ImportSchema(
		context.Background(), raw, *schema, model.EntityType(*entity))
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(tpl)
	if err != nil {
		return err
	}
	return writeOutput(*output, data)
}

func runFill(args []string) error {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	templatePath := fs.String("template", "", "template document path")
	output := fs.String("output", "", "output file (stdout if empty)")
	_ = fs.Parse(args)

	tpl, err := yamlstore.LoadTemplateFile(*templatePath)
	if err != nil {
		return err
	}

	instance := forms.Instantiate(tpl)
	name, err := tui.New().Fill(context.Background(), instance)
	if err != nil {
		return err
	}

	result := forms.Validate(instance, name)
	if !result.Valid() {
		for _, missing := range result.MissingFields {
			fmt.Fprintln(os.Stderr, "champ requis manquant:", missing)
		}
		return fmt.Errorf("submission is incomplete")
	}

	payload, uploads := forms.Assemble(instance, forms.Metadata{
		Name:            name,
		Type:            tpl.EntityType,
		ConfigurationID: tpl.ID,
	})
	for fieldID, batch := range uploads {
		fmt.Fprintf(os.Stderr, "pending uploads for field %s: %d file(s)\n", fieldID, len(batch))
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(*output, append(data, '\n'))
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	templatePath := fs.String("template", "", "template document path")
	rendererName := fs.String("renderer", "vanilla", "renderer name")
	themesDir := fs.String("themes", "", "theme manifest directory")
	themeName := fs.String("theme", "", "theme manifest name")
	themeVariant := fs.String("variant", "", "theme variant")
	action := fs.String("action", "/api/v1/assets", "form action URL")
	output := fs.String("output", "", "output file (stdout if empty)")
	_ = fs.Parse(args)

	tpl, err := yamlstore.LoadTemplateFile(*templatePath)
	if err != nil {
		return err
	}

	registry, err := buildRegistry()
	if err != nil {
		return err
	}
	renderer, err := registry.Get(*rendererName)
	if err != nil {
		return err
	}

	var themeCfg *render.ThemeConfig
	if *themeName != "" {
		selector, err := render.NewFileSelector(*themesDir)
		if err != nil {
			return err
		}
		themeCfg, err = render.ResolveTheme(selector, *themeName, *themeVariant)
		if err != nil {
			return err
		}
	}

	html, err := renderer.Render(context.Background(), forms.Instantiate(tpl), render.RenderOptions{
		Action: *action,
		Theme:  themeCfg,
	})
	if err != nil {
		return err
	}
	return writeOutput(*output, html)
}

// buildRegistry registers the built-in renderers.
func buildRegistry() (*render.Registry, error) {
	htmlRenderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}
	return registry, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("written to %s\n", path)
	return nil
}
