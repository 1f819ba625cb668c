package insights

import "fmt"

const promptTemplate = `You are a senior GCP security and cost analyst. Analyze this GCP account and return actionable insights per resource.

GCP Account Data:
%s

Return ONLY valid JSON (no markdown, no explanation) mapping nodeId to insight:
{
  "<nodeId>": {
    "severity": "green" | "yellow" | "red" | "none",
    "summary": "one sentence, max 15 words",
    "suggestions": ["specific actionable suggestion", ...]
  }
}

Security rules (red):
- API keys with no restrictions at all: red, suggest adding API target restrictions
- Projects with allUsers/allAuthenticatedUsers IAM bindings: red
- Projects with disabled service accounts still having IAM roles: red
- Billing accounts that are closed but still have projects attached: red

Warning rules (yellow):
- API keys older than 180 days: yellow, suggest rotation
- Projects with billing disabled but active services: yellow
- Projects with 0 API keys and 0 service accounts (may be unused): yellow
- Projects with >5 IAM bindings per member (overprivileged): yellow
- Service accounts making up >50%% of IAM members: yellow (over-automation)

Healthy rules (green):
- API keys with proper API target restrictions: green
- Projects with billing enabled and reasonable service count (<15): green
- Billing accounts that are open and have active projects: green

Provide 2-3 specific, actionable suggestions per resource. Be concise.`

func buildPrompt(payload []byte) string {
	return fmt.Sprintf(promptTemplate, payload)
}
