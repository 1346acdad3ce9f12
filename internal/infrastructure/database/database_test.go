package database

import (
	"testing"

	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestSeedDefaultData(t *testing.T) {
	db := setupTestDB(t)
	admin := config.AdminConfig{Email: "owner@salon.test", Password: "secret123", Name: "Yuta Shimoi"}

	require.NoError(t, SeedDefaultData(db, admin))

	var owner entity.User
	require.NoError(t, db.Preload("Roles.Permissions").First(&owner, "email = ?", admin.Email).Error)
	assert.Equal(t, "Yuta", owner.FirstName)
	assert.Equal(t, "Shimoi", owner.LastName)
	assert.True(t, owner.HasRole(entity.RoleOwner))
	assert.True(t, owner.HasPermission(entity.PermissionManageMasters))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte("secret123")))

	var stylist entity.Role
	require.NoError(t, db.Preload("Permissions").First(&stylist, "name = ?", entity.RoleStylist).Error)
	assert.Len(t, stylist.Permissions, 3)

	var menus []entity.TreatmentMenu
	require.NoError(t, db.Order("id").Find(&menus).Error)
	require.Len(t, menus, len(defaultMenus))
	assert.Equal(t, "カット", menus[0].Name)
	assert.Equal(t, int64(3000), *menus[0].Price)
	assert.True(t, menus[0].IsActive)

	var coupon entity.DiscountType
	require.NoError(t, db.First(&coupon, "name = ?", "固定割引").Error)
	assert.Equal(t, enum.DiscountKindFixed, coupon.DiscountType)
	assert.Equal(t, int64(500), coupon.DiscountValue)

	t.Run("seeding twice adds nothing", func(t *testing.T) {
		require.NoError(t, SeedDefaultData(db, admin))

		var users, roles, products int64
		db.Model(&entity.User{}).Count(&users)
		db.Model(&entity.Role{}).Count(&roles)
		db.Model(&entity.RetailProduct{}).Count(&products)
		assert.Equal(t, int64(1), users)
		assert.Equal(t, int64(2), roles)
		assert.Equal(t, int64(len(defaultProducts)), products)
	})
}

func TestSeedDefaultData_WithoutAdmin(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SeedDefaultData(db, config.AdminConfig{}))

	var users int64
	db.Model(&entity.User{}).Count(&users)
	assert.Zero(t, users)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "mysql"}, false)
	assert.Error(t, err)
}
