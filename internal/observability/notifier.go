package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Notifier sends alert notifications to external channels.
type Notifier interface {
	Notify(alerts []Alert) error
}

// conditionTitles names the alert conditions raised by the alert engine.
var conditionTitles = map[string]string{
	"critical_bug_open":  "Critical bugs",
	"failure_rate_high":  "Task failure rate",
	"task_blocked":       "Blocked tasks",
	"too_many_open_bugs": "Open bug backlog",
}

// slackNotifier posts alerts to a Slack incoming webhook, one section per
// alert condition.
type slackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a Notifier that sends alerts to the given Slack webhook URL.
func NewSlackNotifier(webhookURL string) Notifier {
	return &slackNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Notify posts alerts to the webhook. An empty slice sends nothing.
func (s *slackNotifier) Notify(alerts []Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	body, err := json.Marshal(buildSlackMessage(alerts))
	if err != nil {
		return fmt.Errorf("encoding slack message: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// buildSlackMessage groups alerts by condition, most severe condition first.
func buildSlackMessage(alerts []Alert) slackMessage {
	groups := make(map[string][]Alert)
	var conditions []string
	worst := make(map[string]int)
	for _, a := range alerts {
		if _, ok := groups[a.Condition]; !ok {
			conditions = append(conditions, a.Condition)
			worst[a.Condition] = severityOrder(a.Severity)
		}
		groups[a.Condition] = append(groups[a.Condition], a)
		if r := severityOrder(a.Severity); r < worst[a.Condition] {
			worst[a.Condition] = r
		}
	}
	sort.SliceStable(conditions, func(i, j int) bool {
		return worst[conditions[i]] < worst[conditions[j]]
	})

	summary := fmt.Sprintf("AI Dev Team: %d active alert(s)", len(alerts))
	blocks := []slackBlock{{
		Type: "header",
		Text: &slackText{Type: "plain_text", Text: summary},
	}}

	for _, cond := range conditions {
		title, ok := conditionTitles[cond]
		if !ok {
			title = cond
		}
		var lines []string
		for _, a := range groups[cond] {
			lines = append(lines, fmt.Sprintf("%s *[%s]* %s",
				severityEmoji(a.Severity), strings.ToUpper(string(a.Severity)), a.Message))
		}
		blocks = append(blocks,
			slackBlock{Type: "divider"},
			slackBlock{
				Type: "section",
				Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("*%s*\n%s", title, strings.Join(lines, "\n"))},
			},
		)
	}

	blocks = append(blocks, slackBlock{
		Type: "context",
		Elements: []slackText{{
			Type: "mrkdwn",
			Text: "evaluated " + alerts[0].TriggeredAt.Format("2006-01-02 15:04 UTC"),
		}},
	})

	return slackMessage{Text: summary, Blocks: blocks}
}

func severityOrder(severity AlertSeverity) int {
	switch severity {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

func severityEmoji(severity AlertSeverity) string {
	switch severity {
	case SeverityHigh:
		return ":red_circle:"
	case SeverityMedium:
		return ":large_yellow_circle:"
	case SeverityLow:
		return ":large_blue_circle:"
	default:
		return ":grey_question:"
	}
}
