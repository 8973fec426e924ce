package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salon-pos/internal/analytics"
	"salon-pos/internal/database"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash-001"

// maxToolRounds bounds how many tool calls one question may chain.
const maxToolRounds = 5

var ErrNoAnswer = errors.New("the model returned no candidates")

// Options configures one agent run.
type Options struct {
	APIKey       string
	Model        string
	Now          time.Time
	RankingLimit int
}

func RunAgent(ctx context.Context, userMessage string, opts Options) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	name := opts.Model
	if name == "" {
		name = DefaultModel
	}
	model := client.GenerativeModel(name)
	model.Tools = tools

	// --- 1. Prompt with today's business date ---
	today := analytics.FormatDate(opts.Now)
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s (%s). You are the assistant of a small beauty salon's register.

	RULES:
	1. SALES: For revenue or number of checkouts in a period, call 'get_sales_report'.
	   Resolve words like "last month" or "this week" into YYYY-MM-DD dates yourself.
	2. RANKINGS: For best sellers, top customers or top categories, call 'get_top_sellers'.
	3. DASHBOARD: For averages, customer counts or payment method shares, call 'get_dashboard_kpis'.
	4. HOLIDAYS: For whether a date is a Japanese public holiday, call 'check_holiday'.
	5. Amounts are Japanese yen without decimals. Answer in the user's language.

	USER: %s`, today, opts.Now.Weekday(), userMessage)

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	// --- 2. Answer tool calls until the model replies with text ---
	tk := toolkit{now: opts.Now, rankingLimit: opts.RankingLimit}
	for round := 0; round < maxToolRounds; round++ {
		call, ok := firstFunctionCall(resp)
		if !ok {
			break
		}
		result := tk.execute(call.Name, call.Args)
		resp, err = session.SendMessage(ctx, genai.FunctionResponse{
			Name:     call.Name,
			Response: result,
		})
		if err != nil {
			return "", err
		}
	}

	return printResponse(resp)
}

var tools = []*genai.Tool{
	{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "get_sales_report",
				Description: "Get total revenue, checkout count and line item count for a date range.",
				Parameters:  dateRangeSchema(),
			},
			{
				Name:        "get_top_sellers",
				Description: "Rank categories, products or customers by sales for a date range.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"dimension":  {Type: genai.TypeString, Description: "category, product or customer", Enum: []string{"category", "product", "customer"}},
						"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
						"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						"limit":      {Type: genai.TypeInteger, Description: "How many entries to return"},
					},
					Required: []string{"dimension", "start_date", "end_date"},
				},
			},
			{
				Name:        "get_dashboard_kpis",
				Description: "Get KPIs (average spend, customers) and the payment method breakdown for a date range.",
				Parameters:  dateRangeSchema(),
			},
			{
				Name:        "check_holiday",
				Description: "Tell whether a date is a Japanese public holiday, a Saturday or a weekday.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date": {Type: genai.TypeString, Description: "Date (YYYY-MM-DD)"},
					},
					Required: []string{"date"},
				},
			},
		},
	},
}

func dateRangeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
			"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
		},
		Required: []string{"start_date", "end_date"},
	}
}

// --- HELPER FUNCTIONS ---

type toolkit struct {
	now          time.Time
	rankingLimit int
}

// execute runs one tool and returns the payload sent back to the model.
// Failures are reported to the model as an "error" field, never as a Go error.
func (tk toolkit) execute(name string, args map[string]any) map[string]any {
	switch name {
	case "get_sales_report":
		return tk.salesReport(args)
	case "get_top_sellers":
		return tk.topSellers(args)
	case "get_dashboard_kpis":
		return tk.dashboardKPIs(args)
	case "check_holiday":
		return tk.checkHoliday(args)
	default:
		return map[string]any{"error": "unknown tool " + name}
	}
}

func (tk toolkit) salesReport(args map[string]any) map[string]any {
	rng, err := rangeArgs(args)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	totals, err := database.GetSalesTotals(rng)
	if err != nil {
		return map[string]any{"error": "Error calculating sales."}
	}
	return map[string]any{
		"revenue":         totals.TotalRevenue,
		"checkout_count":  totals.CheckoutCount,
		"line_item_count": totals.LineItemCount,
	}
}

func (tk toolkit) topSellers(args map[string]any) map[string]any {
	dim, err := analytics.ParseDimension(stringArg(args, "dimension"))
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	rng, err := rangeArgs(args)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	limit := intArg(args, "limit")
	if limit <= 0 {
		limit = tk.rankingLimit
	}

	records, err := database.LoadSalesInRange(rng)
	if err != nil {
		return map[string]any{"error": "Error loading sales."}
	}
	return map[string]any{
		"dimension": dim.String(),
		"entries":   analytics.Rank(records, dim, limit),
	}
}

func (tk toolkit) dashboardKPIs(args map[string]any) map[string]any {
	rng, err := rangeArgs(args)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	records, err := database.LoadSalesInRange(rng)
	if err != nil {
		return map[string]any{"error": "Error loading sales."}
	}
	report := analytics.Aggregate(records, rng)
	return map[string]any{
		"kpis":     report.KPIs,
		"payments": report.Payments,
	}
}

func (tk toolkit) checkHoliday(args map[string]any) map[string]any {
	date, err := analytics.ParseDate(stringArg(args, "date"))
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{
		"date":       analytics.FormatDate(date),
		"is_holiday": analytics.IsHoliday(date),
		"day_kind":   string(analytics.DayKindOf(date)),
	}
}

func rangeArgs(args map[string]any) (analytics.DateRange, error) {
	start, err := analytics.ParseDate(stringArg(args, "start_date"))
	if err != nil {
		return analytics.DateRange{}, err
	}
	end, err := analytics.ParseDate(stringArg(args, "end_date"))
	if err != nil {
		return analytics.DateRange{}, err
	}
	return analytics.NewDateRange(start, end)
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg reads a number; JSON numbers arrive as float64.
func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func firstFunctionCall(resp *genai.GenerateContentResponse) (genai.FunctionCall, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return genai.FunctionCall{}, false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			return funcCall, true
		}
	}
	return genai.FunctionCall{}, false
}

func printResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoAnswer
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "I completed the action.", nil
}
