package agent

// Agent describes one reasoning component of the multi-agent backend, as shown to users.
type Agent struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Expertise   []string `json:"expertise,omitempty"`
}

const (
	// WelcomeName signs the greeting that opens every transcript.
	WelcomeName = "Welcome Assistant"
	// SystemName signs placeholders shown instead of suppressed replies.
	SystemName = "System Processing"
)

// Seed lists the agents the backend reports in agent_used, plus the two client-side names.
func Seed() []Agent {
	return []Agent{
		{
			ID:          "projects-employee-data",
			Name:        "Projects & Employee Data Specialist",
			Title:       "Employee and project records",
			Description: "Answers questions about team members, project assignments and departmental data.",
			Expertise:   []string{"employees", "projects", "departments"},
		},
		{
			ID:          "policy-procedures",
			Name:        "Policy & Procedures Specialist",
			Title:       "Company policies",
			Description: "Searches HR policies, procedures and guidelines.",
			Expertise:   []string{"leave", "benefits", "conduct", "procedures"},
		},
		{
			ID:          "organizational-data",
			Name:        "Organizational Data Analyst",
			Title:       "Organizational structure",
			Description: "Explains company structure, roles and reporting lines.",
			Expertise:   []string{"org chart", "roles", "structure"},
		},
		{
			ID:          "knowledge-synthesis",
			Name:        "Knowledge Synthesis Manager",
			Title:       "General questions",
			Description: "Combines the specialists' findings for questions spanning several sources.",
		},
		{
			ID:    "welcome",
			Name:  WelcomeName,
			Title: "Greeting",
		},
		{
			ID:    "system",
			Name:  SystemName,
			Title: "Placeholder while a reply is being prepared",
		},
	}
}
