package category

type CategoriesResponse struct {
	Categories []Info `json:"categories"`
}
