package redisrepo

import "fmt"

const (
	PROFILE_KEY = "profile:%s" // <userID>
)

func ProfileKey(userID string) string {
	return fmt.Sprintf(PROFILE_KEY, userID)
}
