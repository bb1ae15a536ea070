package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/toolgraph/cmd/toolgraph/internal"
	"github.com/zero-day-ai/toolgraph/internal/catalog"
	"github.com/zero-day-ai/toolgraph/internal/config"
)

var catalogRaw bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and print the catalog without connecting to Neo4j",
	Long: `Catalog parses and validates the catalog (the embedded one, or the file
given by --catalog or TOOLGRAPH_CATALOG_PATH) and prints its providers,
integrations and relationships. Relationships whose endpoints are not in the
catalog are listed as warnings; a load would skip them.`,
	Annotations: map[string]string{skipConfigAnnotation: ""},
	Args:        cobra.NoArgs,
	RunE:        runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogRaw, "raw", false, "Print the catalog YAML document")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	path, err := catalogPath(cmd)
	if err != nil {
		return err
	}

	if catalogRaw {
		return printRawCatalog(cmd.OutOrStdout(), path)
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}
	if err := cat.Validate(); err != nil {
		return err
	}

	format := globalFlags.GetOutputFormat()
	out := internal.NewFormatter(format, cmd.OutOrStdout())
	if format == internal.FormatJSON {
		return out.PrintJSON(cat)
	}

	printer := newPrinter(cmd.OutOrStdout())
	for _, section := range catalogSections(cat) {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", printer.Heading(section.title)); err != nil {
			return err
		}
		if err := out.PrintTable(section.headers, section.rows); err != nil {
			return err
		}
	}

	if dangling := cat.DanglingRelationships(); len(dangling) > 0 {
		printer.Section("Warnings")
		for _, rel := range dangling {
			printer.Fail("%s references an integration outside the catalog", rel)
		}
	}

	return out.PrintSuccess(fmt.Sprintf("catalog valid: %d providers, %d integrations, %d relationships",
		len(cat.Providers), len(cat.Integrations), len(cat.Relationships)))
}

// catalogPath resolves --catalog, then TOOLGRAPH_CATALOG_PATH. Empty means embedded.
func catalogPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return "", err
	}
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "_CATALOG_PATH")
	}
	return path, nil
}

func printRawCatalog(w io.Writer, path string) error {
	data := catalog.DefaultYAML()
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return internal.WrapError(internal.ExitConfigError, "failed to read catalog "+path, err)
		}
	}
	_, err := w.Write(data)
	return err
}

type catalogSection struct {
	title   string
	headers []string
	rows    [][]string
}

func catalogSections(cat *catalog.Catalog) []catalogSection {
	providers := catalogSection{
		title:   "Providers",
		headers: []string{"name", "full name", "type", "api version", "status"},
	}
	for _, p := range cat.Providers {
		providers.rows = append(providers.rows, []string{p.Name, p.FullName, p.Type, p.APIVersion, string(p.Status)})
	}

	integrations := catalogSection{
		title:   "Integrations",
		headers: []string{"provider", "name", "category", "complexity", "points", "endpoints"},
	}
	for _, group := range cat.Groups() {
		for _, i := range group.Integrations {
			integrations.rows = append(integrations.rows, []string{
				i.Provider, i.Name, i.Category, string(i.Complexity),
				strconv.Itoa(i.StoryPoints), strings.Join(i.Endpoints, ","),
			})
		}
	}

	relationships := catalogSection{
		title:   "Relationships",
		headers: []string{"source", "kind", "target"},
	}
	for _, rel := range cat.Relationships {
		relationships.rows = append(relationships.rows, []string{rel.Source.String(), string(rel.Kind), rel.Target.String()})
	}

	return []catalogSection{providers, integrations, relationships}
}
