package schema

// CoreBlogTable represents the 'core.blog' table
type CoreBlogTable struct {
	Table     string
	ID        string
	Title     string
	Author    string
	URL       string
	Likes     string
	OwnerID   string
	CreatedAt string
	UpdatedAt string
}

// CoreBlog is the schema definition for core.blog
var CoreBlog = CoreBlogTable{
	Table:     "core.blog",
	ID:        "id",
	Title:     "title",
	Author:    "author",
	URL:       "url",
	Likes:     "likes",
	OwnerID:   "ownerid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t CoreBlogTable) Columns() []string {
	return []string{t.ID, t.Title, t.Author, t.URL, t.Likes, t.OwnerID, t.CreatedAt, t.UpdatedAt}
}
