package server

// CrisisResource is a hotline or directory shown alongside crisis replies.
type CrisisResource struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	URL     string `json:"url,omitempty"`
	Region  string `json:"region"`
}

var crisisResources = []CrisisResource{
	{Name: "988 Suicide & Crisis Lifeline", Contact: "Call or text 988", URL: "tel:988", Region: "US"},
	{Name: "Crisis Text Line", Contact: "Text HOME to 741741", URL: "sms:741741", Region: "US"},
	{Name: "International Association for Suicide Prevention", Contact: "Find a crisis centre", URL: "https://www.iasp.info/resources/Crisis_Centres/", Region: "International"},
}
