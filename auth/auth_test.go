package auth

import (
	"context"
	"testing"

	"cafelist/database"
	"cafelist/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T, adminEmail string) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.Open(":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	svc := NewService(database.NewUserStore(db), adminEmail)
	svc.cost = bcrypt.MinCost
	return svc, db
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, _ := newTestService(t, "")

	user, err := svc.Register(context.Background(), " Ann@Example.com", "hunter22", "Ann")
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", user.Email)
	assert.NotEqual(t, "hunter22", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter22")))
	assert.Equal(t, model.Admin, user.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, db := newTestService(t, "")
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "pw", "Ann")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ANN@example.com", "other", "Ann Again")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestRegisterAdminEmail(t *testing.T) {
	svc, _ := newTestService(t, "boss@example.com")
	ctx := context.Background()

	first, err := svc.Register(ctx, "first@example.com", "pw", "First")
	require.NoError(t, err)
	boss, err := svc.Register(ctx, "boss@example.com", "pw", "Boss")
	require.NoError(t, err)

	assert.Equal(t, model.Member, first.Role)
	assert.Equal(t, model.Admin, boss.Role)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t, "")
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ann@example.com", "correct", "Ann")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "nobody@example.com", "correct")
	assert.ErrorIs(t, err, ErrUnknownEmail)

	_, err = svc.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	user, err := svc.Login(ctx, "ann@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestResolveMissingUserIsAnonymous(t *testing.T) {
	svc, _ := newTestService(t, "")

	user, err := svc.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRegisterRejectsBlankFields(t *testing.T) {
	svc, db := newTestService(t, "")
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "pw", "   ")
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = svc.Register(ctx, "  ", "pw", "Ann")
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = svc.Register(ctx, "ann@example.com", " ", "Ann")
	assert.ErrorIs(t, err, ErrMissingField)

	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.Zero(t, n)
}
