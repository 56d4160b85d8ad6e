package extract

import (
	"strings"

	"github.com/dgallion1/provdir/internal/cleaner"
)

const schemaSection = `Return a JSON object with this exact shape:

{
    "providers": [
        {
            "provider_id_insurer": <string or null>,
            "full_name": <string or null>,
            "specialty": <string or null>,
            "practice_name": <string or null>,
            "address_line1": <string or null>,
            "address_line2": <string or null>,
            "city": <string or null>,
            "state": <string or null>,
            "zip": <string or null>,
            "county": <string or null>,
            "phone": <string or null>,
            "languages": <string or null>
        }
    ]
}

Use null for any missing field. Use ";" to separate multiple languages.
Respond with ONLY the JSON object, no other text.`

// PersonPrompt drives extraction for directories where each listing is a
// single practitioner block headed by a bolded "Last, First MD" name.
const PersonPrompt = `You are a specialized provider extraction system for Medicare Provider Directory documents.
Extract ALL provider information from the page content.

` + schemaSection + `

Rules:
1. A provider block starts at a name ending with a credential suffix (MD, DO, etc.) and runs until the next such name.
2. Ignore page headers, footers, and disclaimers.
3. Extract the provider ID when a PCP# or Provider ID appears.
4. Split addresses into line1/line2, city, state, and zip. A provider may list multiple locations; extract all of them.
5. Extract phone numbers, languages, and practice names when present.
6. Use the previous page content only for continuity with blocks cut at the page boundary.
7. Every extracted entry must have at least an ID or a name.
8. Do NOT extract entries whose name contains words like "Center", "Clinic", "Group", "Hospital", "Network", "SC" or "Health". Those are facility names, not practitioners.`

// OrgPrompt drives extraction for directories where practitioners are
// grouped under bolded organization headers.
const OrgPrompt = `You are a specialized provider extraction system for Medicare Provider Directory documents.
Extract ALL provider information from the page content.

` + schemaSection + `

Rules:
1. An organization block starts at a bolded organization name and includes every line until the next organization name. Organization names contain keywords like Center, Clinic, Health, Hospital, Medical, Network, Group, Access, SC, Ltd, Inc.
2. Organizations are never individual providers. They become "practice_name" for the providers listed beneath them. Names ending with SC are organizations, not providers.
3. An organization with addresses but no listed providers must still produce an entry with "full_name": null, its "practice_name", address fields, and phone.
4. Organizations may carry their own PCP#. Keep it on the organization entry with "full_name": null; never merge it into a provider's ID.
5. Providers are recognized by names ending with MD, DO, etc. (NOT SC). Assign each one the organization and address of its block.
6. Addresses begin with a numeric street number and may include suite, city, state, zip, and phone.
7. Match phone numbers to the correct level, organization or provider.
8. Ignore page headers, footers, and disclaimers.
9. Use the previous page content only for continuity with blocks cut at the page boundary.`

// PromptFor returns the system prompt for a directory layout.
func PromptFor(format cleaner.Format) string {
	if format == cleaner.FormatILCook {
		return OrgPrompt
	}
	return PersonPrompt
}

// BuildUserContent assembles the user message from the current chunk and
// the previous chunk kept for page-boundary continuity.
func BuildUserContent(current, previous string) string {
	var sb strings.Builder
	if previous != "" {
		sb.WriteString("Previous page content (for context only):\n")
		sb.WriteString(previous)
		sb.WriteString("\n---\n")
	}
	sb.WriteString("Current page content:\n")
	sb.WriteString(current)
	return sb.String()
}
