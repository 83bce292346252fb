package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/text/unicode/norm"
)

type AuthLevelTag string

const (
	AuthLevelAny      AuthLevelTag = "any"
	AuthLevelSignedIn AuthLevelTag = "signedIn"
	AuthLevelUserType AuthLevelTag = "userType"
)

// AuthLevel determines who may read a file's bytes.
type AuthLevel struct {
	Tag       AuthLevelTag `bson:"tag" json:"tag"`
	UserTypes []UserType   `bson:"userTypes,omitempty" json:"userTypes,omitempty"`
}

func DefaultAuthLevel() AuthLevel {
	return AuthLevel{Tag: AuthLevelAny}
}

// Authorize reports whether the session may read bytes guarded by this
// auth level.
func (a AuthLevel) Authorize(session *Session) bool {
	switch a.Tag {
	case AuthLevelAny:
		return true
	case AuthLevelSignedIn:
		return session != nil && session.LoggedIn()
	case AuthLevelUserType:
		if session == nil || session.User == nil {
			return false
		}
		for _, t := range a.UserTypes {
			if t == session.User.Type {
				return true
			}
		}
	}
	return false
}

type File struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	OriginalName string        `bson:"originalName"`
	Hash         string        `bson:"hash"`
	AuthLevel    AuthLevel     `bson:"authLevel"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

type PublicFile struct {
	ID           bson.ObjectID `json:"_id"`
	OriginalName string        `json:"originalName"`
	Hash         string        `json:"hash"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func MakePublicFile(file *File) PublicFile {
	return PublicFile{
		ID:           file.ID,
		OriginalName: file.OriginalName,
		Hash:         file.Hash,
		CreatedAt:    file.CreatedAt,
	}
}

// HashFile derives the content hash used for deduplication. Two uploads
// with the same name, bytes and auth level always produce the same hash.
func HashFile(originalName string, content io.Reader, authLevel AuthLevel) (string, error) {
	h := sha256.New()
	io.WriteString(h, originalName)
	if _, err := io.Copy(h, content); err != nil {
		return "", err
	}
	io.WriteString(h, string(authLevel.Tag))
	for _, t := range authLevel.UserTypes {
		io.WriteString(h, string(t))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

var unsafeFileNameChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// StorageName derives a safe on-disk/object name for a file record from its
// id and original name. Accented characters are normalized away.
func (f *File) StorageName() string {
	t := norm.NFD.String(strings.ToLower(f.OriginalName))
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	name := unsafeFileNameChars.ReplaceAllString(b.String(), "-")
	name = strings.Trim(name, "-")
	return fmt.Sprintf("%s_%s", f.ID.Hex(), name)
}
