// Package messages centralizes the user-facing detail message vocabulary so
// handlers, services and tests agree on exact wording.
package messages

import "fmt"

// posts
const (
	NoPostsFound            = "No posts found"
	TitleAndContentRequired = "Title and content are required"
	PostContainsForbidden   = "Post contains forbidden words."
	FailedToCreatePost      = "Failed to create post"
	FailedToUpdatePost      = "Failed to update post"
	FailedToDeletePost      = "Failed to delete post"
)

// comments
const (
	CommentContainsForbidden = "Comment contains forbidden words and is blocked."
	FailedToCreateComment    = "Failed to create comment"
	FailedToUpdateComment    = "Failed to update comment"
	FailedToDeleteComment    = "Failed to delete comment"
	DateRangeInvalid         = "date_from must be less than or equal to date_to"
)

func PostNotFound(postId int64) string {
	return fmt.Sprintf("Post with id %d not found", postId)
}

func CommentNotFound(commentId int64) string {
	return fmt.Sprintf("Comment with id %d not found", commentId)
}

func NoCommentsFound(postId int64) string {
	return fmt.Sprintf("No comments found for post with id %d", postId)
}

func NoCommentFoundForPost(commentId, postId int64) string {
	return fmt.Sprintf("No comment found with id %d for post with id %d", commentId, postId)
}

func NoCommentsForPeriod(dateFrom, dateTo string) string {
	return fmt.Sprintf("No comments for this period %s - %s.", dateFrom, dateTo)
}
