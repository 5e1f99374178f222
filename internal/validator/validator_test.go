package validator

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake_backend/pkg/apperrors"
)

type basicInfo struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Email  string `json:"email" validate:"required,email"`
	Mobile string `json:"mobile" validate:"required,mobile"`
}

func TestValidateBasicInfo(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		err := v.Validate(basicInfo{Name: "Jane Doe", Email: "jane@x.com", Mobile: "9876543210"})
		assert.NoError(t, err)
	})

	t.Run("errors keyed by json tag", func(t *testing.T) {
		err := v.Validate(basicInfo{Name: "J", Email: "nope", Mobile: "123"})
		require.Error(t, err)

		vErr, ok := err.(*ValidationError)
		require.True(t, ok)
		assert.Contains(t, vErr.Errors, "name")
		assert.Contains(t, vErr.Errors, "email")
		assert.Contains(t, vErr.Errors, "mobile")
		assert.Equal(t, "Please enter a valid email address", vErr.Errors["email"])
		assert.Equal(t, "Mobile number must be exactly 10 digits", vErr.Errors["mobile"])
	})
}

func TestMobileRule(t *testing.T) {
	v := New()

	cases := []struct {
		mobile string
		valid  bool
	}{
		{"9876543210", true},
		{"987654321", false},   // 9 цифр
		{"98765432100", false}, // 11 цифр
		{"987654321x", false},  // не только цифры
		{"", false},            // required
	}

	for _, tc := range cases {
		err := v.Validate(basicInfo{Name: "Jane Doe", Email: "jane@x.com", Mobile: tc.mobile})
		if tc.valid {
			assert.NoError(t, err, "mobile=%q", tc.mobile)
		} else {
			assert.Error(t, err, "mobile=%q", tc.mobile)
		}
	}
}

func fileHeader(size int64, contentType string) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: "file",
		Header:   h,
		Size:     size,
	}
}

func TestCheckResumeFile(t *testing.T) {
	allowed := []string{"application/pdf", "application/msword"}
	const maxSize = 5 * 1024 * 1024

	assert.NoError(t, CheckResumeFile(fileHeader(1024, "application/pdf"), allowed, maxSize))

	err := CheckResumeFile(fileHeader(1024, "text/plain"), allowed, maxSize)
	assert.ErrorIs(t, err, apperrors.ErrResumeFileType)

	err = CheckResumeFile(fileHeader(maxSize+1, "application/pdf"), allowed, maxSize)
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}

func TestCheckVideoFile(t *testing.T) {
	allowed := []string{"video/mp4"}
	const maxSize = 5 * 1024 * 1024

	assert.NoError(t, CheckVideoFile(fileHeader(1024, "video/mp4"), allowed, maxSize))

	err := CheckVideoFile(fileHeader(1024, "video/webm"), allowed, maxSize)
	assert.ErrorIs(t, err, apperrors.ErrVideoFileType)

	err = CheckVideoFile(fileHeader(maxSize+1, "video/mp4"), allowed, maxSize)
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}
