package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/mocks"
	"github.com/dtroode/alumni-portal-server/internal/model"
	"github.com/dtroode/alumni-portal-server/internal/testutil"
)

const testMaxImageSize = 5 << 20

func newTestProfile(store model.AccountStore, storage model.Storage) *Profile {
	return NewProfile(store, storage, testutil.MakeNoopLogger(), "IN", testMaxImageSize)
}

func strPtr(s string) *string { return &s }

func TestProfile_GetPublic(t *testing.T) {
	ctx := context.Background()
	public := model.Account{ID: uuid.New(), Name: "Open", Status: model.StatusApproved}
	private := model.Account{
		ID:              uuid.New(),
		Name:            "Hidden",
		Status:          model.StatusApproved,
		PrivacySettings: model.PrivacySettings{ProfileVisibility: model.VisibilityPrivate},
	}
	p := newTestProfile(newMemStore(public, private), nil)

	t.Run("public profile", func(t *testing.T) {
		got, err := p.GetPublic(ctx, public.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Open", got.Name)
	})

	t.Run("private profile is forbidden for everyone", func(t *testing.T) {
		_, err := p.GetPublic(ctx, private.ID.String())
		assert.Equal(t, apierrors.KindProfileForbidden, apierrors.KindOf(err))
	})

	t.Run("owner still reads private profile through own path", func(t *testing.T) {
		got, err := p.GetOwn(ctx, private.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hidden", got.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := p.GetPublic(ctx, uuid.NewString())
		assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := p.GetPublic(ctx, "12345")
		assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
	})
}

func TestProfile_UpdateOwn(t *testing.T) {
	ctx := context.Background()

	t.Run("forbidden keys are never applied", func(t *testing.T) {
		acc := model.Account{ID: uuid.New(), Email: "me@example.com", Name: "Old", Status: model.StatusPending, PasswordHash: "h"}
		store := newMemStore(acc)
		p := newTestProfile(store, nil)

		update, err := model.DecodeProfileUpdate([]byte(`{"isAdmin":true,"status":"approved","password":"x","email":"evil@example.com","id":"` + uuid.NewString() + `","name":"New Name"}`))
		require.NoError(t, err)

		got, err := p.UpdateOwn(ctx, acc.ID, update)
		require.NoError(t, err)

		assert.Equal(t, "New Name", got.Name)
		assert.False(t, got.IsAdmin)
		assert.Equal(t, model.StatusPending, got.Status)
		assert.Equal(t, "h", got.PasswordHash)
		assert.Equal(t, "me@example.com", got.Email)
		assert.Equal(t, acc.ID, got.ID)
	})

	t.Run("phone is normalized", func(t *testing.T) {
		acc := model.Account{ID: uuid.New()}
		p := newTestProfile(newMemStore(acc), nil)

		got, err := p.UpdateOwn(ctx, acc.ID, model.ProfileUpdate{Phone: strPtr("+91 98765 43210")})
		require.NoError(t, err)
		assert.Equal(t, "+919876543210", got.Phone)
	})

	t.Run("date of birth is parsed and can be cleared", func(t *testing.T) {
		acc := model.Account{ID: uuid.New()}
		p := newTestProfile(newMemStore(acc), nil)

		got, err := p.UpdateOwn(ctx, acc.ID, model.ProfileUpdate{DOB: strPtr("15-03-1990")})
		require.NoError(t, err)
		require.NotNil(t, got.DOB)
		assert.True(t, time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC).Equal(*got.DOB))

		got, err = p.UpdateOwn(ctx, acc.ID, model.ProfileUpdate{DOB: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, got.DOB)
	})

	t.Run("schema violations", func(t *testing.T) {
		tests := []struct {
			name   string
			update model.ProfileUpdate
			field  string
		}{
			{name: "bad phone", update: model.ProfileUpdate{Phone: strPtr("12")}, field: "phone"},
			{name: "bad dob", update: model.ProfileUpdate{DOB: strPtr("not-a-date")}, field: "dob"},
			{name: "bad year", update: model.ProfileUpdate{Year: strPtr("20x0")}, field: "year"},
			{name: "long name", update: model.ProfileUpdate{Name: strPtr(strings.Repeat("a", 101))}, field: "name"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := mocks.NewAccountStore(t)
				p := newTestProfile(store, nil)

				_, err := p.UpdateOwn(ctx, uuid.New(), tt.update)
				require.Error(t, err)
				assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
				assert.Contains(t, err.Error(), tt.field)
			})
		}
	})

	t.Run("store failure", func(t *testing.T) {
		store := mocks.NewAccountStore(t)
		p := newTestProfile(store, nil)
		id := uuid.New()

		store.On("UpdateProfile", mock.Anything, id, mock.Anything).Return(model.Account{}, errors.New("db down"))

		_, err := p.UpdateOwn(ctx, id, model.ProfileUpdate{Bio: strPtr("hi")})
		assert.Equal(t, apierrors.KindServerError, apierrors.KindOf(err))
	})
}

func TestProfile_PrivacySettings(t *testing.T) {
	ctx := context.Background()

	t.Run("replace as a whole", func(t *testing.T) {
		acc := model.Account{ID: uuid.New(), PrivacySettings: model.PrivacySettings{ProfileVisibility: model.VisibilityPrivate}}
		p := newTestProfile(newMemStore(acc), nil)

		got, err := p.UpdatePrivacySettings(ctx, acc.ID, model.PrivacySettings{})
		require.NoError(t, err)
		assert.Equal(t, model.PrivacySettings{}, got.PrivacySettings)
		assert.Equal(t, model.VisibilityPublic, got.PrivacySettings.EffectiveVisibility())

		settings, err := p.GetPrivacySettings(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PrivacySettings{}, settings)
	})

	t.Run("making a profile private hides it", func(t *testing.T) {
		acc := model.Account{ID: uuid.New()}
		p := newTestProfile(newMemStore(acc), nil)

		_, err := p.UpdatePrivacySettings(ctx, acc.ID, model.PrivacySettings{ProfileVisibility: model.VisibilityPrivate})
		require.NoError(t, err)

		_, err = p.GetPublic(ctx, acc.ID.String())
		assert.Equal(t, apierrors.KindProfileForbidden, apierrors.KindOf(err))
	})

	t.Run("unknown visibility", func(t *testing.T) {
		p := newTestProfile(mocks.NewAccountStore(t), nil)

		_, err := p.UpdatePrivacySettings(ctx, uuid.New(), model.PrivacySettings{ProfileVisibility: "friends"})
		assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
	})
}

func TestProfile_ListApproved(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewAccountStore(t)
	p := newTestProfile(store, nil)

	store.On("ListApproved", mock.Anything, model.DirectoryFilter{Year: "2020", Query: "ali"}).
		Return([]model.DirectoryEntry{{Name: "Alice"}}, nil)

	got, err := p.ListApproved(ctx, model.DirectoryFilter{Year: " 2020 ", Query: "ali "})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice", got[0].Name)
}

func TestProfile_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores object and replaces previous", func(t *testing.T) {
		acc := model.Account{ID: uuid.New(), ProfileImage: "/uploads/user-old.png"}
		store := newMemStore(acc)
		storage := mocks.NewStorage(t)
		p := newTestProfile(store, storage)

		var key string
		storage.On("Upload", mock.Anything, mock.MatchedBy(func(k string) bool {
			key = k
			return strings.HasPrefix(k, "user-") && strings.HasSuffix(k, ".png")
		}), mock.Anything, int64(3), "image/png").Return(nil)
		storage.On("Delete", mock.Anything, "user-old.png").Return(nil)

		got, err := p.UploadImage(ctx, acc.ID, model.ImageProfile, model.Upload{
			Filename: "Me.PNG", ContentType: "image/png", Size: 3, Reader: strings.NewReader("png"),
		})
		require.NoError(t, err)
		assert.Equal(t, UploadsPath+key, got.ProfileImage)
		assert.True(t, imageKeyPattern.MatchString(key), key)
	})

	t.Run("non-image extension is never stored", func(t *testing.T) {
		tests := []struct {
			filename    string
			contentType string
			wantExt     string
		}{
			{filename: "evil.html", contentType: "image/png", wantExt: ".png"},
			{filename: "evil.svg", contentType: "image/svg+xml", wantExt: ""},
			{filename: "noext", contentType: "image/jpeg", wantExt: ".jpg"},
			{filename: "photo.JPEG", contentType: "image/jpeg", wantExt: ".jpeg"},
		}

		for _, tt := range tests {
			t.Run(tt.filename, func(t *testing.T) {
				acc := model.Account{ID: uuid.New()}
				storage := mocks.NewStorage(t)
				p := newTestProfile(newMemStore(acc), storage)

				var key string
				storage.On("Upload", mock.Anything, mock.MatchedBy(func(k string) bool {
					key = k
					return true
				}), mock.Anything, int64(1), tt.contentType).Return(nil)

				_, err := p.UploadImage(ctx, acc.ID, model.ImageProfile, model.Upload{
					Filename: tt.filename, ContentType: tt.contentType, Size: 1, Reader: strings.NewReader("x"),
				})
				require.NoError(t, err)
				assert.Equal(t, tt.wantExt, filepath.Ext(key))
				assert.True(t, imageKeyPattern.MatchString(key), key)
			})
		}
	})

	t.Run("cover image with failed cleanup still succeeds", func(t *testing.T) {
		acc := model.Account{ID: uuid.New(), CoverImage: "/uploads/user-oldcover.jpg"}
		storage := mocks.NewStorage(t)
		p := newTestProfile(newMemStore(acc), storage)

		storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, int64(1), "image/jpeg").Return(nil)
		storage.On("Delete", mock.Anything, "user-oldcover.jpg").Return(errors.New("gone"))

		got, err := p.UploadImage(ctx, acc.ID, model.ImageCover, model.Upload{
			Filename: "c.jpg", ContentType: "image/jpeg", Size: 1, Reader: strings.NewReader("j"),
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got.CoverImage, UploadsPath+"user-"))
	})

	t.Run("rejections", func(t *testing.T) {
		p := newTestProfile(mocks.NewAccountStore(t), mocks.NewStorage(t))
		id := uuid.New()

		_, err := p.UploadImage(ctx, id, model.ImageProfile, model.Upload{})
		assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
		assert.Contains(t, err.Error(), "No image uploaded")

		_, err = p.UploadImage(ctx, id, model.ImageProfile, model.Upload{ContentType: "application/pdf", Size: 1, Reader: strings.NewReader("x")})
		assert.Contains(t, err.Error(), "Only image files are allowed")

		_, err = p.UploadImage(ctx, id, model.ImageProfile, model.Upload{ContentType: "image/png", Size: testMaxImageSize + 1, Reader: strings.NewReader("x")})
		assert.Contains(t, err.Error(), "File too large. Max 5MB.")
	})

	t.Run("account update failure removes new object", func(t *testing.T) {
		id := uuid.New()
		store := mocks.NewAccountStore(t)
		storage := mocks.NewStorage(t)
		p := newTestProfile(store, storage)

		store.On("GetByID", mock.Anything, id).Return(model.Account{ID: id}, nil)
		storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, int64(1), "image/png").Return(nil)
		store.On("UpdateImage", mock.Anything, id, model.ImageProfile, mock.Anything).Return(model.Account{}, errors.New("db down"))
		storage.On("Delete", mock.Anything, mock.MatchedBy(func(k string) bool { return strings.HasPrefix(k, "user-") })).Return(nil)

		_, err := p.UploadImage(ctx, id, model.ImageProfile, model.Upload{ContentType: "image/png", Size: 1, Reader: strings.NewReader("x")})
		assert.Equal(t, apierrors.KindServerError, apierrors.KindOf(err))
	})
}

func TestProfile_OpenImage(t *testing.T) {
	ctx := context.Background()
	key := "user-" + strings.Repeat("A", 27) + ".png"

	t.Run("existing", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		p := newTestProfile(nil, storage)

		storage.On("Exists", mock.Anything, key).Return(true, nil)
		storage.On("Download", mock.Anything, key).Return(io.NopCloser(strings.NewReader("img")), nil)

		rc, err := p.OpenImage(ctx, key)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "img", string(data))
	})

	t.Run("missing", func(t *testing.T) {
		storage := mocks.NewStorage(t)
		p := newTestProfile(nil, storage)

		storage.On("Exists", mock.Anything, key).Return(false, nil)

		_, err := p.OpenImage(ctx, key)
		assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err))
	})

	t.Run("foreign key shape", func(t *testing.T) {
		p := newTestProfile(nil, mocks.NewStorage(t))

		for _, k := range []string{"../secrets", "user-" + strings.Repeat("A", 27) + ".html"} {
			_, err := p.OpenImage(ctx, k)
			assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err), k)
		}
	})
}
