// package formatter renders backend payloads and the route table as text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/desertthunder/wasaphoto/internal/models"
	"github.com/desertthunder/wasaphoto/internal/navigation"
	"github.com/desertthunder/wasaphoto/internal/shared"
)

// Format selects an output encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat validates a --format flag value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkdown, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: format %q (want text, markdown, csv or json)", shared.ErrInvalidArgument, s)
	}
}

// ToJSON marshals v with two-space indentation and a trailing newline.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// PhotosToCSV converts photos to CSV with columns: ID, Owner, UploadedAt, Likes, Comments
func PhotosToCSV(photos []models.Photo) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Owner", "UploadedAt", "Likes", "Comments"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range photos {
		record := []string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.Owner, 10),
			p.UploadedAt,
			strconv.Itoa(p.PhotoInfo.LikesCounter),
			strconv.Itoa(p.PhotoInfo.CommentsCounter),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ProfileToText renders a profile header followed by its photos.
func ProfileToText(p *models.UserProfile) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("User: %s (#%d)\n", p.UserInfo.Username, p.UserInfo.ID))
	buf.WriteString(fmt.Sprintf("Photos: %d  Followers: %d  Following: %d\n\n",
		p.ProfileInfo.PhotosCounter, p.ProfileInfo.FollowersCounter, p.ProfileInfo.FollowingCounter))

	writePhotoLines(&buf, p.Photos)
	return buf.Bytes()
}

// ProfileToMarkdown renders a profile as a Markdown document.
func ProfileToMarkdown(p *models.UserProfile) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", p.UserInfo.Username))
	buf.WriteString(fmt.Sprintf("**Photos**: %d\n", p.ProfileInfo.PhotosCounter))
	buf.WriteString(fmt.Sprintf("**Followers**: %d\n", p.ProfileInfo.FollowersCounter))
	buf.WriteString(fmt.Sprintf("**Following**: %d\n\n", p.ProfileInfo.FollowingCounter))

	buf.WriteString("## Photos\n\n")
	if len(p.Photos) == 0 {
		buf.WriteString("_No photos yet._\n")
	}
	for i, photo := range p.Photos {
		buf.WriteString(fmt.Sprintf("%d. #%d uploaded %s (%s, %s)\n", i+1, photo.ID, photo.UploadedAt,
			plural(photo.PhotoInfo.LikesCounter, "like"), plural(photo.PhotoInfo.CommentsCounter, "comment")))
	}
	return buf.Bytes()
}

// StreamToText renders the photos of a stream, newest first as returned by the backend.
func StreamToText(s *models.Stream) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Stream: %d photos\n\n", len(s.Photos)))
	writePhotoLines(&buf, s.Photos)
	return buf.Bytes()
}

// StreamToMarkdown renders a stream as a Markdown list.
func StreamToMarkdown(s *models.Stream) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Stream\n\n")
	for i, photo := range s.Photos {
		buf.WriteString(fmt.Sprintf("%d. #%d by user %d, %s\n", i+1, photo.ID, photo.Owner, photo.UploadedAt))
	}
	return buf.Bytes()
}

// UsersToText renders search results one user per line.
func UsersToText(u *models.UserList) []byte {
	var buf bytes.Buffer

	if len(u.Users) == 0 {
		buf.WriteString("No users found\n")
		return buf.Bytes()
	}
	for _, user := range u.Users {
		buf.WriteString(fmt.Sprintf("%6d  %s\n", user.ID, user.Username))
	}
	return buf.Bytes()
}

// UsersToCSV converts search results to CSV with columns: ID, Username
func UsersToCSV(u *models.UserList) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Username"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, user := range u.Users {
		if err := writer.Write([]string{strconv.FormatInt(user.ID, 10), user.Username}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// CommentsToText renders comments one per line, oldest first as the backend returns them.
func CommentsToText(c *models.CommentList) []byte {
	var buf bytes.Buffer

	if len(c.Comments) == 0 {
		buf.WriteString("No comments\n")
		return buf.Bytes()
	}
	for _, comment := range c.Comments {
		buf.WriteString(fmt.Sprintf("#%d  user %d  %s\n    %s\n", comment.ID, comment.Owner, comment.CreatedAt, comment.Content))
	}
	return buf.Bytes()
}

// CommentsToCSV converts comments to CSV with columns: ID, Owner, CreatedAt, Content
func CommentsToCSV(c *models.CommentList) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Owner", "CreatedAt", "Content"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, comment := range c.Comments {
		record := []string{
			strconv.FormatInt(comment.ID, 10),
			strconv.FormatInt(comment.Owner, 10),
			comment.CreatedAt,
			comment.Content,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// RoutesToText renders the route table as aligned columns.
func RoutesToText(routes []navigation.Route) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tPATH\tVIEW\tAUTH")
	for _, r := range routes {
		auth := "required"
		if !r.RequiresAuth {
			auth = "login"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Path, r.View, auth)
	}
	w.Flush()
	return buf.Bytes()
}

// RenderProfile encodes p in format.
func RenderProfile(p *models.UserProfile, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return ProfileToMarkdown(p), nil
	case FormatCSV:
		return PhotosToCSV(p.Photos)
	case FormatJSON:
		return ToJSON(p)
	default:
		return ProfileToText(p), nil
	}
}

// RenderStream encodes s in format.
func RenderStream(s *models.Stream, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return StreamToMarkdown(s), nil
	case FormatCSV:
		return PhotosToCSV(s.Photos)
	case FormatJSON:
		return ToJSON(s)
	default:
		return StreamToText(s), nil
	}
}

// RenderUsers encodes u in format. Markdown falls back to text.
func RenderUsers(u *models.UserList, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return UsersToCSV(u)
	case FormatJSON:
		return ToJSON(u)
	default:
		return UsersToText(u), nil
	}
}

// RenderComments encodes c in format. Markdown falls back to text.
func RenderComments(c *models.CommentList, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return CommentsToCSV(c)
	case FormatJSON:
		return ToJSON(c)
	default:
		return CommentsToText(c), nil
	}
}

// WriteFile writes data to path, creating or truncating it.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writePhotoLines(buf *bytes.Buffer, photos []models.Photo) {
	for i, photo := range photos {
		buf.WriteString(fmt.Sprintf("%d. #%d  %s  likes=%d comments=%d\n", i+1, photo.ID, photo.UploadedAt,
			photo.PhotoInfo.LikesCounter, photo.PhotoInfo.CommentsCounter))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
