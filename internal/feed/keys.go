package feed

import "fmt"

// PublicTag groups every cached public-feed page for bulk eviction.
const PublicTag = "public"

// UserTag returns the eviction tag covering all cached pages affected by the
// given user: their personalized pages and their annotated public pages.
func UserTag(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// personalizedKey builds the cache key for one personalized page. The key is
// a deterministic function of every input that shapes the page.
func personalizedKey(userID int64, limit int, cursor int64) string {
	key := fmt.Sprintf("feed:user:%d:limit:%d", userID, limit)
	if cursor != 0 {
		key += fmt.Sprintf(":cursor:%d", cursor)
	}

	return key
}

// publicKey builds the cache key for one public page. Authenticated viewers
// get distinct keys because is_liked annotation differs per viewer.
func publicKey(limit int, cursor, viewerID int64) string {
	key := fmt.Sprintf("feed:public:limit:%d", limit)
	if cursor != 0 {
		key += fmt.Sprintf(":cursor:%d", cursor)
	}

	if viewerID != 0 {
		key += fmt.Sprintf(":user:%d", viewerID)
	}

	return key
}
