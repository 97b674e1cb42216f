package tableHeaders

var DependencyTableHeaders = []string{
	"Name",
	"Source",
	"Discovered Via",
	"Risk",
}

var FindingTableHeaders = []string{
	"CWE",
	"Title",
	"Risk Summary",
	"CVEs",
}

var ExcelProfileHeaders = []string{
	"Dependency",
	"Source Url",
	"Discovered Via",
	"Depth",
	"Risk Level",
	"Risk Summary",
	"License",
	"License Compliance",
	"Maintainer Analysis",
	"Code Security Analysis",
}

var ExcelFindingHeaders = []string{
	"Dependency",
	"CWE",
	"Title",
	"Risk Summary",
	"CVEs",
}
