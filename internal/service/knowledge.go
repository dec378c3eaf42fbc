package service

import (
	"encoding/json"
	"fmt"

	"beltsense/internal/models"
)

// rejectReasons is the knowledge base the chat assistant answers from.
var rejectReasons = []models.RejectReason{
	{
		Reason:    "NoChuteAvailable",
		RootCause: "All assigned chutes are reported as full",
		Summary:   "Reported in DV telegram by LLC",
		Recommendation: []string{
			"Check if all the chutes are full",
			"Provide a sample shipment id here and will analyze the equipment logs",
			"If no equipment logs be visible, please create a PDSM ticket.",
		},
	},
	{
		Reason:    "ConveyorStopped",
		RootCause: "Motor fault or emergency stop engaged",
		Summary:   "Reported in DV telegram by LLC",
		Recommendation: []string{
			"Check conveyor motor and sensors",
			"Ensure emergency stop is not engaged",
		},
	},
}

const chatSystemPromptFmt = `You are a Logistics Digital Twin AI assistant.
Use the following dataset to answer all user issues.
Do NOT mention "based on the dataset" or anything extra.
Respond strictly using the dataset.
Format the response exactly like this, with headings bolded and spacing:

**Summary:**
<summary text>

**Root Cause:**
<root cause text>

**Recommendation:**
1. <first recommendation>
2. <second recommendation>
...

Dataset:
%s`

// chatSystemPrompt renders the assistant instructions with the dataset
// embedded as indented JSON.
func chatSystemPrompt() string {
	b, err := json.MarshalIndent(rejectReasons, "", "  ")
	if err != nil {
		// The dataset is static; this cannot realistically fail.
		b = []byte("[]")
	}
	return fmt.Sprintf(chatSystemPromptFmt, b)
}
