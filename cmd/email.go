/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/song-dashboard/internal/analysis"
	"github.com/ademuri/song-dashboard/internal/dataset"
)

type SendEmailConfig struct {
	From   string
	To     string
	Types  []string
	Params []map[string]string
	DryRun bool
	APIKey string
	Start  time.Time
	End    time.Time
}

var defaultEmailTypes = []string{"streams", "top-tracks", "keys", "years"}

var emailCmd = &cobra.Command{
	Use:   "email <address> [analysis_name...] [date] [date]",
	Short: "Sends an email report",
	Long: `Emails the dashboard tables to the specified address.
  <analysis_name> is one or more of: streams, top-tracks, keys, years. All four are sent when none is given.
  Optional date arguments can be provided at the end (e.g. '2022' or '2022-01 2022-06').
  If no dates are provided, the whole dataset is used.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := runEmail(cmd, args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVar(&dryRun, "dry_run", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	var from string
	emailCmd.Flags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))

	var apiKey string
	emailCmd.Flags().StringVar(&apiKey, "sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", emailCmd.Flags().Lookup("sendgrid_api_key"))

	emailCmd.Flags().StringArray("params", nil, "Parameters for reports, matched by index (e.g. --params 'platform=apple,n=20')")
}

func runEmail(cmd *cobra.Command, args []string) error {
	to := args[0]
	analysisTypes, dateArgs := splitDateArgs(args[1:])
	if len(analysisTypes) == 0 {
		analysisTypes = defaultEmailTypes
	}

	params, _ := cmd.Flags().GetStringArray("params")
	structuredParams, err := parseParams(params, len(analysisTypes))
	if err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	agg := analysis.New(ds)

	first, last := agg.Bounds()
	start, end, err := parseDateRangeFromArgs(dateArgs, first, last)
	if err != nil {
		return fmt.Errorf("Error parsing dates: %w", err)
	}

	config := SendEmailConfig{
		From:   viper.GetString("from"),
		To:     to,
		Types:  analysisTypes,
		Params: structuredParams,
		DryRun: viper.GetBool("dryRun"),
		APIKey: viper.GetString("sendgrid_api_key"),
		Start:  start,
		End:    end,
	}
	return sendEmail(cmd.OutOrStdout(), agg, config)
}

// parseParams turns each "k=v,k2=v2" flag into a map, one per report.
func parseParams(params []string, numReports int) ([]map[string]string, error) {
	if len(params) > 0 && len(params) != numReports {
		return nil, fmt.Errorf("Number of --params flags (%d) must match number of reports (%d), or be 0", len(params), numReports)
	}

	structured := make([]map[string]string, numReports)
	for i, v := range params {
		pMap := make(map[string]string)
		if v != "" {
			for _, pair := range strings.Split(v, ",") {
				kv := strings.SplitN(pair, "=", 2)
				if len(kv) == 2 {
					pMap[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
				}
			}
		}
		structured[i] = pMap
	}
	return structured, nil
}

func sendEmail(out io.Writer, agg *analysis.Aggregator, config SendEmailConfig) error {
	actions := make([]Analyser, 0)
	for i, actionName := range config.Types {
		action, err := getActionFromName(actionName)
		if err != nil {
			return err
		}

		if i < len(config.Params) && len(config.Params[i]) > 0 {
			if configurable, ok := action.(Configurable); ok {
				err := configurable.Configure(config.Params[i])
				if err != nil {
					return fmt.Errorf("configuring %s (index %d): %w", actionName, i, err)
				}
			}
		}

		actions = append(actions, action)
	}
	subject, body, err := generateEmailContent(agg, config, actions)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Fprintf(out, "Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	if config.APIKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}
	from := mail.NewEmail("song-dashboard", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, subject, body)
	client := sendgrid.NewSendClient(config.APIKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendEmail: status %d: %s", resp.StatusCode, resp.Body)
	}
	fmt.Fprintf(out, "Sent %q to %s\n", subject, config.To)
	return nil
}

func generateEmailContent(agg *analysis.Aggregator, config SendEmailConfig, actions []Analyser) (subject string, body string, err error) {
	var out strings.Builder
	out.WriteString(`
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`)
	period := fmt.Sprintf("%s to %s", config.Start.Format("2006-01-02"), config.End.Format("2006-01-02"))
	for _, action := range actions {
		out.WriteString("\t\t<div>\n")
		fmt.Fprintf(&out, "<h2>%s, %s:</h2>\n", html.EscapeString(action.GetName()), period)

		result, err := action.GetResults(agg, config.Start, config.End)
		if err != nil {
			return "", "", fmt.Errorf("getting results for %s: %w", action.GetName(), err)
		}

		// With no rows the summary carries the placeholder message.
		if len(result.results) > 1 {
			out.WriteString("\t\t\t<table>\n\t\t\t\t<thead>\n\t\t\t\t\t<tr>\n")
			for _, header := range result.results[0] {
				fmt.Fprintf(&out, "<th>%s</th>", html.EscapeString(header))
			}
			out.WriteString("\t\t\t\t</tr>\n\t\t\t</thead>\n\t\t\t<tbody>\n")
			for _, row := range result.results[1:] {
				out.WriteString("<tr>\n")
				for _, column := range row {
					fmt.Fprintf(&out, "<td>%s</td>\n", html.EscapeString(column))
				}
				out.WriteString("</tr>\n")
			}
			out.WriteString("\t\t\t</tbody>\n\t\t\t</table>\n")
		}
		fmt.Fprintf(&out, "<div>%s</div>\n\t\t</div>\n", html.EscapeString(result.summary))
	}
	out.WriteString("  </body>\n</html>\n")

	subject = fmt.Sprintf("Song report %s", period)
	return subject, out.String(), nil
}

func getActionFromName(actionName string) (Analyser, error) {
	// Recreating map every time but it's fine. Pointers required for Configure.
	actionMap := map[string]Analyser{
		"streams":    StreamsAnalyzer{},
		"top-tracks": &TopTracksAnalyzer{Platform: dataset.PlatformSpotify, N: analysis.DefaultTopN},
		"keys":       &KeysAnalyzer{Platform: dataset.PlatformSpotify},
		"years":      YearsAnalyzer{},
	}

	action, ok := actionMap[actionName]
	if !ok {
		return nil, fmt.Errorf("Invalid analysis_name: %s", actionName)
	}

	return action, nil
}
