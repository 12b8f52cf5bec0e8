package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var userSeq int

func createTestUser(t *testing.T) *User {
	t.Helper()

	userSeq++
	user := &User{Email: fmt.Sprintf("user%d-%d@medilink.test", userSeq, time.Now().UnixNano())}
	require.Nil(t, CreateUser(user))

	return user
}

func createTestPage(t *testing.T) (*User, *Page) {
	t.Helper()

	user := createTestUser(t)
	page, err := CreatePage(user.ID, PageInput{})
	require.Nil(t, err)

	return user, page
}

func medicineNames(medicines []Medicine) []string {
	names := []string{}
	for _, medicine := range medicines {
		names = append(names, medicine.Name)
	}
	return names
}

func stringPtr(value string) *string {
	return &value
}
