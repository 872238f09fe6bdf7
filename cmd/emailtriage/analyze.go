package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/linnemanlabs/go-core/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/llm"
	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/triage"
)

// apiKeyEnv names the credential variable for each provider.
var apiKeyEnv = map[llm.ProviderName]string{
	llm.ProviderClaude: "ANTHROPIC_API_KEY",
	llm.ProviderOpenAI: "OPENAI_API_KEY",
}

type analyzeOptions struct {
	subject  string
	from     string
	body     string
	bodyFile string
	provider string
	model    string
	asJSON   bool
	timeout  time.Duration
}

func newAnalyzeCmd() *cobra.Command {
	o := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one patient email",
		Long: `Analyze one patient email and print its urgency summary.

Examples:
  emailtriage analyze --subject "Refill needed" --from a@b.com --body "I need my blood pressure meds refilled"
  emailtriage analyze --subject "Question" --from a@b.com --body-file message.txt --provider openai
  cat message.txt | emailtriage analyze --subject "Question" --from a@b.com --body-file - --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			L, flush, err := newLogger()
			if err != nil {
				return err
			}
			defer flush()

			provider, err := o.newProvider(os.LookupEnv)
			if err != nil {
				return err
			}
			return o.run(ctx, L, provider, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.subject, "subject", "", "Email subject")
	f.StringVar(&o.from, "from", "", "Sender address")
	f.StringVar(&o.body, "body", "", "Email body")
	f.StringVar(&o.bodyFile, "body-file", "", "Read the email body from a file, - for stdin")
	f.StringVarP(&o.provider, "provider", "p", string(llm.ProviderClaude), "LLM provider (claude, openai)")
	f.StringVarP(&o.model, "model", "m", "", "Specific model name (default depends on provider)")
	f.BoolVar(&o.asJSON, "json", false, "Print the response envelope as JSON")
	f.DurationVar(&o.timeout, "timeout", 60*time.Second, "Upper bound on the analysis, 0 disables")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")

	return cmd
}

func (o *analyzeOptions) newProvider(lookup func(string) (string, bool)) (triage.Provider, error) {
	name := llm.ProviderName(o.provider)
	if !llm.ValidProvider(o.provider) {
		return nil, fmt.Errorf("unknown provider %q (want one of %v)", o.provider, llm.Providers)
	}
	key, _ := lookup(apiKeyEnv[name])
	if key == "" {
		return nil, fmt.Errorf("%s is not set", apiKeyEnv[name])
	}
	model := o.model
	if model == "" {
		model = llm.DefaultModel(name)
	}
	return llm.NewProvider(name, key, model)
}

func (o *analyzeOptions) run(ctx context.Context, L log.Logger, provider triage.Provider, stdin io.Reader, stdout, stderr io.Writer) error {
	body, err := readBody(stdin, o.body, o.bodyFile)
	if err != nil {
		return err
	}

	engine := triage.NewEngine(provider, L, triage.Hooks{})
	svc := triage.NewService(engine, L, triage.ServiceOptions{Timeout: o.timeout})

	stopSpinner := startSpinner(stderr, fmt.Sprintf(" Analyzing with %s...", o.provider))
	result, err := svc.Analyze(ctx, &triage.Email{Subject: o.subject, From: o.from, Body: body})
	stopSpinner()

	if o.asJSON {
		if werr := writeEnvelope(stdout, result, err); werr != nil {
			return werr
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printResult(stdout, result)
	dim := color.New(color.FgHiBlack)
	_, _ = dim.Fprintf(stderr, "\n  triage %s • %s • %.1fs • %d tokens\n", result.ID, result.Model, result.Duration, result.TokensIn+result.TokensOut)
	return nil
}

// readBody resolves the email body from --body or --body-file ("-" is stdin).
func readBody(stdin io.Reader, body, bodyFile string) (string, error) {
	switch bodyFile {
	case "":
		return body, nil
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read body from stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(bodyFile) //nolint:gosec // path is supplied by the operator
		if err != nil {
			return "", fmt.Errorf("read body file: %w", err)
		}
		return string(b), nil
	}
}

// startSpinner shows progress on w when it is a terminal and returns the stop func.
func startSpinner(w io.Writer, suffix string) func() {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(f))
	s.Suffix = suffix
	s.Start()
	return s.Stop
}

type envelope struct {
	Success  bool            `json:"success"`
	Analysis json.RawMessage `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func writeEnvelope(w io.Writer, result *triage.Result, err error) error {
	env := envelope{Success: err == nil}
	if err != nil {
		env.Error = err.Error()
	} else {
		env.Analysis = result.Raw
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(env)
}

func printResult(w io.Writer, r *triage.Result) {
	bold := color.New(color.Bold)

	a := r.Analysis
	if a == nil {
		_, _ = bold.Fprintln(w, "ANALYSIS")
		var pretty strings.Builder
		enc := json.NewEncoder(&pretty)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r.Raw); err != nil {
			fmt.Fprintln(w, string(r.Raw))
			return
		}
		fmt.Fprint(w, pretty.String())
		return
	}

	printUrgencyBadge(w, a.UrgencyLevel)
	if a.UrgencyReason != "" {
		fmt.Fprintf(w, "  %s\n", a.UrgencyReason)
	}
	fmt.Fprintln(w)

	_, _ = bold.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, a.Summary)
	fmt.Fprintln(w)

	if a.PatientIntent != "" {
		_, _ = bold.Fprintln(w, "INTENT")
		fmt.Fprintln(w, a.PatientIntent)
		fmt.Fprintln(w)
	}

	if len(a.Conditions) > 0 {
		_, _ = bold.Fprintln(w, "CONDITIONS")
		for _, c := range a.Conditions {
			fmt.Fprintf(w, "- %s\n", c)
		}
		fmt.Fprintln(w)
	}

	if a.ConcerningInfo != nil && *a.ConcerningInfo != "" {
		red := color.New(color.FgRed, color.Bold)
		_, _ = red.Fprintln(w, "RED FLAGS")
		fmt.Fprintln(w, *a.ConcerningInfo)
	}
}

func printUrgencyBadge(w io.Writer, u triage.UrgencyLevel) {
	label := strings.ToUpper(string(u))
	if !u.Valid() {
		label = "UNKNOWN"
	}
	_, _ = urgencyColor(u).Fprintf(w, " %s ", label)
	fmt.Fprintln(w, " urgency")
}

func urgencyColor(u triage.UrgencyLevel) *color.Color {
	switch u {
	case triage.UrgencyCritical:
		return color.New(color.BgRed, color.FgWhite, color.Bold)
	case triage.UrgencyHigh:
		return color.New(color.BgYellow, color.FgBlack, color.Bold)
	case triage.UrgencyMedium:
		return color.New(color.FgYellow, color.Bold)
	case triage.UrgencyLow:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgHiBlack)
	}
}
