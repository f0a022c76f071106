package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	queue "github.com/goliatone/go-activation-queue/components/queue"
	"github.com/goliatone/go-activation-queue/pkg/activations"
)

type cli struct {
	BaseURL   string `required:"" help:"Base URL of the back-office server (e.g. https://backoffice.example.com)."`
	Config    string `type:"path" help:"Optional YAML endpoint manifest overriding the default paths."`
	CSRFToken string `name:"csrf-token" help:"Anti-forgery token attached as the csrftoken cookie on mutations."`
	JSON      bool   `help:"Emit raw JSON instead of formatted text."`

	Page        pageCmd        `cmd:"" help:"List one page of pending activations."`
	Kpis        kpisCmd        `cmd:"" help:"Show the aggregate activation counters."`
	Technicians techniciansCmd `cmd:"" help:"List the technicians available for filtering."`
	Confirm     confirmCmd     `cmd:"" help:"Confirm a pending activation."`
	Cancel      cancelCmd      `cmd:"" help:"Cancel a pending or confirmed activation."`
	Detail      detailCmd      `cmd:"" help:"Show the full record for one activation."`
}

type pageCmd struct {
	Page       int    `default:"1" help:"Page number to fetch."`
	PageSize   int    `default:"10" help:"Rows per page."`
	Status     string `help:"Status filter (pending, active, in_progress)."`
	DateRange  string `name:"date-range" help:"Date range filter (e.g. 24h)."`
	Technician string `help:"Technician identifier filter."`
}

type kpisCmd struct {
	Status     string `help:"Status filter applied to the aggregates."`
	DateRange  string `name:"date-range" help:"Date range filter applied to the aggregates."`
	Technician string `help:"Technician identifier filter applied to the aggregates."`
}

type techniciansCmd struct{}

type confirmCmd struct {
	ID           string `arg:"" help:"Activation identifier (req-<n> for requests)."`
	Subscription bool   `help:"Target a subscription instead of an activation request."`
}

type cancelCmd struct {
	ID           string `arg:"" help:"Activation identifier (req-<n> for requests)."`
	Subscription bool   `help:"Target a subscription instead of an activation request."`
}

type detailCmd struct {
	ID string `arg:"" help:"Activation identifier, exactly as listed."`
}

func main() {
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Description("Technician activation queue utility."),
		kong.UsageOnError(),
		kong.BindTo(root, (*clientSource)(nil)),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

// clientSource lets subcommands build a client from the root flags.
type clientSource interface {
	Client() (*activations.HTTPClient, error)
	EmitJSON() bool
}

func (c *cli) EmitJSON() bool { return c.JSON }

func (c *cli) Client() (*activations.HTTPClient, error) {
	endpoints := queue.DefaultConfig()
	if c.Config != "" {
		loaded, err := queue.LoadConfigFile(c.Config)
		if err != nil {
			return nil, err
		}
		endpoints = loaded
	}
	httpClient := &http.Client{}
	if c.CSRFToken != "" {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("queuectl: cookie jar: %w", err)
		}
		base, err := url.Parse(c.BaseURL + "/")
		if err != nil {
			return nil, fmt.Errorf("queuectl: parse base url: %w", err)
		}
		jar.SetCookies(base, []*http.Cookie{{Name: "csrftoken", Value: c.CSRFToken}})
		httpClient.Jar = jar
	}
	return activations.NewHTTPClient(activations.HTTPConfig{
		BaseURL:    c.BaseURL,
		Endpoints:  endpoints,
		HTTPClient: httpClient,
	})
}

func (cmd *pageCmd) Run(ctx context.Context, src clientSource) error {
	client, err := src.Client()
	if err != nil {
		return err
	}
	result, err := client.FetchPage(ctx, queue.PageQuery{
		Page:     cmd.Page,
		PageSize: cmd.PageSize,
		Filters: queue.FilterState{
			Status:       cmd.Status,
			DateRange:    cmd.DateRange,
			TechnicianID: cmd.Technician,
		},
	})
	if err != nil {
		return err
	}
	if src.EmitJSON() {
		return emitJSON(result)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tORDER\tCUSTOMER\tPLAN\tSTATUS")
	for _, row := range result.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ID, row.Kind, orDash(row.OrderRef), orDash(row.UserName), orDash(row.PlanName), row.RawStatus)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "page %d of %d (%d items)\n", result.Meta.Page, result.Meta.TotalPages, result.Meta.TotalItems)
	return nil
}

func (cmd *kpisCmd) Run(ctx context.Context, src clientSource) error {
	client, err := src.Client()
	if err != nil {
		return err
	}
	snapshot, err := client.FetchKpis(ctx, queue.FilterState{
		Status:       cmd.Status,
		DateRange:    cmd.DateRange,
		TechnicianID: cmd.Technician,
	})
	if err != nil {
		return err
	}
	if src.EmitJSON() {
		return emitJSON(snapshot)
	}
	fmt.Fprintf(os.Stdout, "planned today: %d\npending:       %d\nin progress:   %d\ncompleted:     %d\n",
		snapshot.PlannedToday, snapshot.Pending, snapshot.InProgress, snapshot.Completed)
	return nil
}

func (cmd *techniciansCmd) Run(ctx context.Context, src clientSource) error {
	client, err := src.Client()
	if err != nil {
		return err
	}
	techs, err := client.FetchTechnicians(ctx)
	if err != nil {
		return err
	}
	if src.EmitJSON() {
		return emitJSON(techs)
	}
	for _, tech := range techs {
		fmt.Fprintf(os.Stdout, "%s\t%s\n", tech.ID, tech.Name)
	}
	return nil
}

func (cmd *confirmCmd) Run(ctx context.Context, src clientSource) error {
	return mutate(ctx, src, cmd.ID, cmd.Subscription, queue.ActionConfirm)
}

func (cmd *cancelCmd) Run(ctx context.Context, src clientSource) error {
	return mutate(ctx, src, cmd.ID, cmd.Subscription, queue.ActionCancel)
}

func mutate(ctx context.Context, src clientSource, id string, subscription bool, action queue.Action) error {
	client, err := src.Client()
	if err != nil {
		return err
	}
	row := queue.ActivationRow{ID: id}
	kind := queue.KindRequest
	if subscription {
		kind = queue.KindSubscription
	}
	result, err := client.Mutate(ctx, queue.MutationTarget{
		Kind:   kind,
		Action: action,
		ID:     row.BareID(),
	})
	if err != nil {
		return err
	}
	if src.EmitJSON() {
		return emitJSON(result)
	}
	message := result.Message
	if message == "" {
		message = "ok"
	}
	fmt.Fprintln(os.Stdout, message)
	return nil
}

func (cmd *detailCmd) Run(ctx context.Context, src clientSource) error {
	client, err := src.Client()
	if err != nil {
		return err
	}
	detail, err := client.FetchDetail(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if src.EmitJSON() {
		return emitJSON(detail)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Order:\t%s\n", orDash(detail.OrderRef))
	fmt.Fprintf(w, "Customer:\t%s\n", orDash(detail.UserName))
	fmt.Fprintf(w, "Email:\t%s\n", orDash(detail.UserEmail))
	fmt.Fprintf(w, "Phone:\t%s\n", orDash(detail.UserPhone))
	fmt.Fprintf(w, "Plan:\t%s\n", orDash(detail.PlanName))
	fmt.Fprintf(w, "Kit:\t%s\n", orDash(detail.KitID))
	fmt.Fprintf(w, "Status:\t%s\n", orDash(detail.Status))
	fmt.Fprintf(w, "Technician:\t%s\n", orDash(detail.Technician))
	fmt.Fprintf(w, "Address:\t%s\n", orDash(detail.Address))
	fmt.Fprintf(w, "Created:\t%s\n", orDash(detail.CreatedAt))
	return w.Flush()
}

func emitJSON(payload any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
