package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apexline/racedata/common/clients"
	"github.com/apexline/racedata/common/export"
)

func fetchCMD() *cobra.Command {
	var paramFlags []string
	var doExport bool

	cmd := &cobra.Command{
		Use:   "fetch <operation>",
		Short: "Run one catalog operation and print the materialized document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			op, ok := clients.LookupOperation(args[0])
			if !ok {
				return fmt.Errorf("unknown operation %q (see 'racedata ops')", args[0])
			}

			params := url.Values{}
			for _, kv := range paramFlags {
				key, value, found := strings.Cut(kv, "=")
				if !found || key == "" {
					return fmt.Errorf("invalid --param %q, expected key=value", kv)
				}
				params.Add(key, value)
			}

			client, err := newClient(cfg, log)
			if err != nil {
				return err
			}

			doc, err := client.Do(cmd.Context(), op, params)
			if err != nil {
				return fmt.Errorf("%s: %w", op.Name, err)
			}
			if doc == nil {
				log.Warn("no result", "operation", op.Name)
				return nil
			}

			if doExport {
				writer := export.NewWriter(cfg.Export.Root, cfg.Export.Folder, log)
				var value any
				if err := json.Unmarshal(doc, &value); err != nil {
					return fmt.Errorf("decode %s: %w", op.Name, err)
				}
				// Export failures are reported, not fatal: the fetch
				// already succeeded and still prints below.
				if err := writer.WriteJSON(op.Name+".json", value); err != nil {
					log.Error("export failed", "operation", op.Name, "error", err)
				}
			}

			os.Stdout.Write(doc)
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil, "query parameter key=value (repeatable)")
	cmd.Flags().BoolVar(&doExport, "export", false, "also write the document to the export folder")
	return cmd
}
