package dto

// ArticleFilter narrows article queries on the read API.
type ArticleFilter struct {
	Source  string `query:"source"`
	Date    string `query:"date"`
	Keyword string `query:"keyword"`
	Limit   int    `query:"limit"`
}

// AnalysisFilter narrows analysis queries on the read API.
type AnalysisFilter struct {
	Source string `query:"source"`
	Date   string `query:"date"`
	Limit  int    `query:"limit"`
}
