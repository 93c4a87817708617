package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/yamlenv"
	"github.com/eugenenazirov/yamlenv/codec"
	"github.com/eugenenazirov/yamlenv/internal/logging"
)

func main() {
	kingpinApp := kingpin.New("yamlenv", "Resolves configuration from a YAML file, environment variables, and prints the merged result")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	prefix := kingpinApp.Flag("prefix", "Environment variable prefix, e.g. APP").String()
	separator := kingpinApp.Flag("separator", "Segment separator used in variable names").Default("_").String()
	format := kingpinApp.Flag("format", "Output format").Default("env").Enum("env", "json", "yaml")
	strict := kingpinApp.Flag("strict", "Fail on any validation issue").Bool()
	override := kingpinApp.Flag("override", "Let file values take precedence over explicit environment variables").Bool()
	requireConfig := kingpinApp.Flag("require-config", "Fail when the configuration file is missing").Bool()
	commaLists := kingpinApp.Flag("comma-lists", "Render list values as comma-separated strings instead of JSON").Bool()
	verbose := kingpinApp.Flag("verbose", "Enable debug logging").Short('v').Bool()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	logger, err := logging.New(*verbose)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	opts := []yamlenv.Option{
		yamlenv.WithPrefix(*prefix),
		yamlenv.WithSeparator(*separator),
		yamlenv.WithMode(yamlenv.ReturnObject),
		yamlenv.WithStrict(*strict),
		yamlenv.WithOverride(*override),
		yamlenv.WithRequireFile(*requireConfig),
		yamlenv.WithLogger(logger),
	}
	if *commaLists {
		opts = append(opts, yamlenv.WithListEncoding(codec.ListComma))
	}

	res, err := yamlenv.Load(*configFile, opts...)
	if err != nil {
		logger.Fatal("failed to resolve configuration", zap.Error(err))
	}

	if err := render(os.Stdout, res, *format); err != nil {
		logger.Fatal("failed to render configuration", zap.Error(err))
	}
}

// render writes the resolved configuration in the requested format. The env
// format prints sorted KEY=value lines suitable for a shell or an env file;
// json and yaml print the nested tree.
func render(w io.Writer, res *yamlenv.Result, format string) error {
	switch format {
	case "env":
		names := make([]string, 0, len(res.Values))
		for name := range res.Values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "%s=%s\n", name, res.Values[name]); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Config)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res.Config); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
