package registry

import "github.com/vk/yxflow/internal/workflow"

// builtins lists the stock tools by the last segment of their plugin
// identifier.
var builtins = []*ToolDefinition{
	// In/Out
	{Plugin: "DbFileInput", Kind: workflow.KindInput, Name: "Input Data"},
	{Plugin: "TextInput", Kind: workflow.KindInput, Name: "Text Input"},
	{Plugin: "DynamicInput", Kind: workflow.KindInput, Name: "Dynamic Input"},
	{Plugin: "DirectoryInput", Kind: workflow.KindInput, Name: "Directory"},
	{Plugin: "DbFileOutput", Kind: workflow.KindOutput, Name: "Output Data"},
	{Plugin: "BrowseV2", Kind: workflow.KindOutput, Name: "Browse"},
	{Plugin: "MacroInput", Kind: workflow.KindInput, Name: "Macro Input", Boundary: true},
	{Plugin: "MacroOutput", Kind: workflow.KindOutput, Name: "Macro Output", Boundary: true},

	// Preparation
	{Plugin: "Filter", Kind: workflow.KindFilter, Name: "Filter"},
	{Plugin: "Formula", Kind: workflow.KindFormula, Name: "Formula"},
	{Plugin: "MultiFieldFormula", Kind: workflow.KindFormula, Name: "Multi-Field Formula"},
	{Plugin: "MultiRowFormula", Kind: workflow.KindFormula, Name: "Multi-Row Formula"},
	{Plugin: "AlteryxSelect", Kind: workflow.KindSelect, Name: "Select"},
	{Plugin: "Sort", Kind: workflow.KindSort, Name: "Sort"},

	// Join
	{Plugin: "Join", Kind: workflow.KindJoin, Name: "Join"},
	{Plugin: "JoinMultiple", Kind: workflow.KindJoin, Name: "Join Multiple"},
	{Plugin: "Union", Kind: workflow.KindUnion, Name: "Union"},

	// Transform
	{Plugin: "Summarize", Kind: workflow.KindSummarize, Name: "Summarize"},

	// In-Database
	{Plugin: "LockInInput", Kind: workflow.KindInput, Name: "Connect In-DB"},
	{Plugin: "LockInOutput", Kind: workflow.KindOutput, Name: "Write Data In-DB"},
	{Plugin: "LockInFilter", Kind: workflow.KindFilter, Name: "Filter In-DB"},
	{Plugin: "LockInFormula", Kind: workflow.KindFormula, Name: "Formula In-DB"},
	{Plugin: "LockInJoin", Kind: workflow.KindJoin, Name: "Join In-DB"},
	{Plugin: "LockInSelect", Kind: workflow.KindSelect, Name: "Select In-DB"},
	{Plugin: "LockInSummarize", Kind: workflow.KindSummarize, Name: "Summarize In-DB"},
	{Plugin: "LockInUnion", Kind: workflow.KindUnion, Name: "Union In-DB"},

	// Documentation
	{Plugin: "ToolContainer", Kind: workflow.KindContainer, Name: "Tool Container"},
}
