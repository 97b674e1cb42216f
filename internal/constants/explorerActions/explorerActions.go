package explorerActions

const (
	Analyze = "Run deep risk assessment"
	Expand  = "Discover nested dependencies"
	Toggle  = "Expand/collapse"
	Export  = "Export risk profile to excel"
	Quit    = "Quit"
)

var Actions = []string{Analyze, Expand, Toggle, Export, Quit}
