package models

// User identifies an account on the photo service.
type User struct {
	ID       int64  `json:"identifier"`
	Username string `json:"username"`
}

// UserProfile is the payload of GET /profiles/{id}.
type UserProfile struct {
	UserInfo    User            `json:"user_info"`
	Photos      []Photo         `json:"photos"`
	ProfileInfo ProfileCounters `json:"profileInfo"`
}

// ProfileCounters summarises a profile.
type ProfileCounters struct {
	PhotosCounter    int `json:"photosCounter"`
	FollowingCounter int `json:"followingCounter"`
	FollowersCounter int `json:"followersCounter"`
}

// Photo is the metadata of an uploaded photo; the image itself is fetched separately.
type Photo struct {
	ID         int64         `json:"id"`
	Owner      int64         `json:"owner"`
	UploadedAt string        `json:"uploadedAt"`
	PhotoInfo  PhotoCounters `json:"photoInfo"`
}

// PhotoCounters holds like and comment totals.
type PhotoCounters struct {
	LikesCounter    int `json:"likesCounter"`
	CommentsCounter int `json:"commentsCounter"`
}

// Stream is the payload of GET /stream/{id}: recent photos of followed users.
type Stream struct {
	Photos []Photo `json:"photos"`
}

// UserList is the payload of GET /search and of the following and ban lists.
type UserList struct {
	Users []User `json:"users"`
}

// Comment is a comment left on a photo.
type Comment struct {
	ID        int64  `json:"id"`
	Owner     int64  `json:"owner"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// CommentList is the payload of GET /profiles/{id}/photos/{photo}/comments.
type CommentList struct {
	Comments []Comment `json:"comments"`
}
