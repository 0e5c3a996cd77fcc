package model

// Advisory is a static knowledge-base entry attached to a disease slug.
type Advisory struct {
	FriendlyName   string   `json:"friendly_name"`
	Treatment      string   `json:"treatment"`
	Prevention     string   `json:"prevention"`
	ExampleClasses []string `json:"example_classes"`
}
