// Copyright 2024 Northern.tech AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"

	"github.com/mendersoftware/recordsearch/client/records"
	"github.com/mendersoftware/recordsearch/config"
	"github.com/mendersoftware/recordsearch/entity"
	"github.com/mendersoftware/recordsearch/model"
	"github.com/mendersoftware/recordsearch/query"
	"github.com/mendersoftware/recordsearch/store/memory"
)

func main() {
	doMain(os.Args)
}

const queryDescription = `Search the records of a YAML file, or of a running
   server given with --url, with the filters, search term, sort and paging
   the API accepts. Filters are given as NAME=[OPERATOR:]VALUE,
   e.g. --filter hours=gte:10 --filter subject=Math.`

func doMain(args []string) {
	var configPath string
	var envPath string
	var debug bool

	app := cli.NewApp()
	app.Usage = "Record Search Service"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name: "config",
			Usage: "Configuration `FILE`." +
				" Supports JSON, TOML, YAML and HCL formatted configs.",
			Destination: &configPath,
		},
		cli.StringFlag{
			Name:        "env",
			Usage:       "Environment `FILE` loaded before the configuration.",
			Value:       ".env",
			Destination: &envPath,
		},
		cli.BoolFlag{
			Name:  "dev",
			Usage: "Use development setup",
		},
		cli.BoolFlag{
			Name:        "debug",
			Usage:       "Enable debug logging",
			Destination: &debug,
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "server",
			Usage: "Run the service as a server",

			Action: cmdServer,
		},
		{
			Name:        "query",
			Usage:       "Search records loaded from a file",
			Description: queryDescription,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "entity, e",
					Usage: "Record type: teachers or invoices.",
					Value: entity.TeacherSchema.Name(),
				},
				cli.StringFlag{
					Name:  "file, f",
					Usage: "YAML `FILE` with a list of records.",
				},
				cli.StringFlag{
					Name:  "url",
					Usage: "Base `URL` of a server to search instead of a file.",
				},
				cli.StringSliceFlag{
					Name:  "filter",
					Usage: "Filter `NAME=[OPERATOR:]VALUE`; may be repeated.",
				},
				cli.StringFlag{
					Name:  "search, q",
					Usage: "Free-text search term.",
				},
				cli.StringFlag{
					Name:  "sort",
					Usage: "Sort `NAME[:asc|desc]`.",
				},
				cli.IntFlag{
					Name:  "page",
					Usage: "Page number.",
					Value: model.PageDefault,
				},
				cli.IntFlag{
					Name:  "per-page",
					Usage: "Page size.",
					Value: model.PerPageDefault,
				},
				cli.StringFlag{
					Name:  "output, o",
					Usage: "Output format: table or yaml.",
					Value: outputTable,
				},
			},

			Action: cmdQuery,
		},
	}

	app.Action = cmdServer
	app.Before = func(args *cli.Context) error {
		log.Setup(debug)

		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return cli.NewExitError(
				fmt.Sprintf("error loading environment file: %s", err),
				1)
		}

		err := config.FromConfigFile(configPath, configDefaults)
		if err != nil {
			return cli.NewExitError(
				fmt.Sprintf("error loading configuration: %s", err),
				1)
		}

		// Enable setting conig values by environment variables
		config.Config.SetEnvPrefix("RECORDSEARCH")
		config.Config.AutomaticEnv()

		return nil
	}

	_ = app.Run(args)
}

func cmdServer(args *cli.Context) error {
	devSetup := args.GlobalBool("dev")

	l := log.New(log.Ctx{})

	if devSetup {
		l.Infof("setting up development configuration")
		config.Config.Set(SettingMiddleware, EnvDev)
	}

	l.Print("Record Search Service starting up")

	err := RunServer(config.Config)
	if err != nil {
		return cli.NewExitError(err.Error(), 4)
	}

	return nil
}

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

func queryParams(args *cli.Context) (model.SearchParams, error) {
	params := model.SearchParams{
		Page:       args.Int("page"),
		PerPage:    args.Int("per-page"),
		Filters:    []model.FilterPredicate{},
		SearchTerm: args.String("search"),
	}
	for _, f := range args.StringSlice("filter") {
		parts := strings.SplitN(f, "=", 2)
		if len(parts) != 2 {
			return params, errors.Errorf("invalid filter %q", f)
		}
		params.Filters = append(params.Filters, model.ParseFilterPredicate(parts[0], parts[1]))
	}
	if s := args.String("sort"); s != "" {
		sort, err := model.ParseSortCriteria(s)
		if err != nil {
			return params, err
		}
		params.Sort = sort
	}
	return params, params.Validate()
}

func cmdQuery(args *cli.Context) error {
	params, err := queryParams(args)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	var (
		client records.Client
		file   io.Reader
	)
	if url := args.String("url"); url != "" {
		client = records.NewClient(url)
	} else {
		path := args.String("file")
		if path == "" {
			return cli.NewExitError("no record file or url given", 2)
		}
		f, err := os.Open(path)
		if err != nil {
			return cli.NewExitError(err.Error(), 2)
		}
		defer f.Close()
		file = f
	}

	ctx := context.Background()
	out := args.App.Writer
	format := args.String("output")
	switch name := args.String("entity"); name {
	case entity.TeacherSchema.Name():
		err = runQuery(ctx, out, entity.TeacherSchema,
			searcher(entity.TeacherSchema, client, file), params, format)
	case entity.InvoiceSchema.Name():
		err = runQuery(ctx, out, entity.InvoiceSchema,
			searcher(entity.InvoiceSchema, client, file), params, format)
	default:
		err = errors.Errorf("unknown record type %q", name)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 3)
	}
	return nil
}

type searchFunc[T any] func(ctx context.Context, params model.SearchParams) ([]T, int, error)

// searcher searches a remote server when client is set, the records in
// file otherwise.
func searcher[T any](schema *query.Schema[T], client records.Client, file io.Reader) searchFunc[T] {
	if client != nil {
		return remoteSearch(schema, client)
	}
	return fileSearch(schema, file)
}

func fileSearch[T any](schema *query.Schema[T], r io.Reader) searchFunc[T] {
	return func(ctx context.Context, params model.SearchParams) ([]T, int, error) {
		db := memory.NewDataStore(schema)
		if err := db.LoadYAML(r); err != nil {
			return nil, -1, err
		}
		return query.Search(ctx, db.Records(), schema, params)
	}
}

func remoteSearch[T any](schema *query.Schema[T], client records.Client) searchFunc[T] {
	return func(ctx context.Context, params model.SearchParams) ([]T, int, error) {
		var recs []T
		total, err := client.Search(ctx, schema.Name(), params, &recs)
		if err != nil {
			return nil, -1, err
		}
		return recs, total, nil
	}
}

// runQuery writes the page of records selected by params.
func runQuery[T any](
	ctx context.Context,
	w io.Writer,
	schema *query.Schema[T],
	search searchFunc[T],
	params model.SearchParams,
	format string,
) error {
	recs, total, err := search(ctx, params)
	if err != nil {
		return err
	}

	switch format {
	case outputTable:
		renderTable(w, schema, recs)
	case outputYAML:
		if err := yaml.NewEncoder(w).Encode(recs); err != nil {
			return errors.Wrap(err, "failed to encode records")
		}
	default:
		return errors.Errorf("unknown output format %q", format)
	}
	fmt.Fprintf(w, "%d of %d %s\n", len(recs), total, schema.Name())
	return nil
}

func renderTable[T any](w io.Writer, schema *query.Schema[T], recs []T) {
	fields := schema.Fields()

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(header)
	for _, rec := range recs {
		row := make([]string, len(fields))
		for i, f := range fields {
			if v := f.Get(rec); !v.IsNull() {
				row[i] = v.String()
			}
		}
		table.Append(row)
	}
	table.Render()
}
