package loam

// ProgramMetadata is the front matter of a program document.
// It uses "mapstructure" tags to match the YAML keys of the document header.
type ProgramMetadata struct {
	Name        string `json:"name,omitempty" mapstructure:"name"`
	Description string `json:"description,omitempty" mapstructure:"description"`
	States      int    `json:"states" mapstructure:"states"`
	Tapes       int    `json:"tapes" mapstructure:"tapes"`
	Start       int    `json:"start" mapstructure:"start"`
	Halting     []int  `json:"halting" mapstructure:"halting"`
	Accepting   []int  `json:"accepting" mapstructure:"accepting"`
}
