// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import "github.com/taibuivan/bloglist/pkg/slice"

// Stats is the aggregate view served on /api/blogs/stats.
// Pointer fields are null when there are no blogs.
type Stats struct {
	TotalLikes   int           `json:"total_likes"`
	FavoriteBlog *FavoriteBlog `json:"favorite_blog"`
	MostBlogs    *AuthorBlogs  `json:"most_blogs"`
	MostLikes    *AuthorLikes  `json:"most_likes"`
}

type FavoriteBlog struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type AuthorBlogs struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

// Summarize computes [Stats] over blogs. Ties go to whichever entry appears first.
func Summarize(blogs []*Blog) *Stats {
	return &Stats{
		TotalLikes:   TotalLikes(blogs),
		FavoriteBlog: Favorite(blogs),
		MostBlogs:    MostBlogs(blogs),
		MostLikes:    MostLikes(blogs),
	}
}

// TotalLikes sums likes across blogs.
func TotalLikes(blogs []*Blog) int {
	return slice.Reduce(blogs, 0, func(total int, b *Blog) int { return total + b.Likes })
}

// Favorite returns the blog with the most likes. On ties the later blog wins.
func Favorite(blogs []*Blog) *FavoriteBlog {
	best := slice.Reduce(blogs, (*Blog)(nil), func(prev, current *Blog) *Blog {
		if prev != nil && prev.Likes > current.Likes {
			return prev
		}
		return current
	})
	if best == nil {
		return nil
	}
	return &FavoriteBlog{Title: best.Title, Author: best.Author, Likes: best.Likes}
}

// MostBlogs returns the author with the largest number of blogs.
func MostBlogs(blogs []*Blog) *AuthorBlogs {
	counts := slice.SumBy(blogs, byAuthor, func(*Blog) int { return 1 })

	best, ok := slice.MaxBy(counts, totalValue)
	if !ok {
		return nil
	}
	return &AuthorBlogs{Author: best.Key, Blogs: best.Value}
}

// MostLikes returns the author whose blogs have the largest total of likes.
func MostLikes(blogs []*Blog) *AuthorLikes {
	sums := slice.SumBy(blogs, byAuthor, func(b *Blog) int { return b.Likes })

	best, ok := slice.MaxBy(sums, totalValue)
	if !ok {
		return nil
	}
	return &AuthorLikes{Author: best.Key, Likes: best.Value}
}

func byAuthor(b *Blog) string { return b.Author }

func totalValue(t slice.Total[string]) int { return t.Value }
