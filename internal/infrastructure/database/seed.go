package database

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var rolePermissions = map[string][]string{
	entity.RoleOwner: {
		entity.PermissionViewDashboard,
		entity.PermissionManageCustomers,
		entity.PermissionManageTreatments,
		entity.PermissionManageMasters,
		entity.PermissionManageUsers,
	},
	entity.RoleStylist: {
		entity.PermissionViewDashboard,
		entity.PermissionManageCustomers,
		entity.PermissionManageTreatments,
	},
}

// SeedDefaultData seeds roles, permissions, the owner account and the salon
// master data. Existing rows are left untouched so it is safe on every start.
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig) error {
	log.Info().Msg("seeding default data")

	if err := seedRoles(db); err != nil {
		return err
	}
	seedAdmin(db, admin)
	if err := seedMasters(db); err != nil {
		return err
	}

	log.Info().Msg("default data seeding completed")
	return nil
}

func seedRoles(db *gorm.DB) error {
	names := []string{
		entity.PermissionViewDashboard,
		entity.PermissionManageCustomers,
		entity.PermissionManageTreatments,
		entity.PermissionManageMasters,
		entity.PermissionManageUsers,
	}
	byName := make(map[string]entity.Permission, len(names))
	for _, name := range names {
		p := entity.Permission{Name: name, GuardName: "web"}
		if err := db.Where(entity.Permission{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
		byName[name] = p
	}

	for _, roleName := range []string{entity.RoleOwner, entity.RoleStylist} {
		var role entity.Role
		err := db.Where("name = ?", roleName).First(&role).Error
		if err == nil {
			continue
		}
		perms := make([]entity.Permission, 0, len(rolePermissions[roleName]))
		for _, name := range rolePermissions[roleName] {
			perms = append(perms, byName[name])
		}
		role = entity.Role{Name: roleName, GuardName: "web", Permissions: perms}
		if err := db.Create(&role).Error; err != nil {
			log.Warn().Err(err).Str("role", roleName).Msg("failed to create role")
		}
	}
	return nil
}

func seedAdmin(db *gorm.DB, admin config.AdminConfig) {
	if admin.Email == "" || admin.Password == "" {
		return
	}

	var existing entity.User
	if err := db.Where("email = ?", admin.Email).First(&existing).Error; err == nil {
		log.Debug().Str("email", admin.Email).Msg("owner account already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Warn().Err(err).Msg("failed to hash owner password")
		return
	}

	var ownerRole entity.Role
	if err := db.Where("name = ?", entity.RoleOwner).First(&ownerRole).Error; err != nil {
		log.Warn().Err(err).Msg("owner role missing, skipping owner account")
		return
	}

	name := admin.Name
	if name == "" {
		name = "Owner"
	}
	firstName, lastName, _ := strings.Cut(name, " ")

	user := entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     admin.Email,
		Username:  strings.Split(admin.Email, "@")[0],
		Password:  string(hashedPassword),
		Roles:     []entity.Role{ownerRole},
	}
	if err := db.Create(&user).Error; err != nil {
		log.Warn().Err(err).Msg("failed to create owner account")
		return
	}
	log.Info().Str("email", admin.Email).Msg("owner account created")
}

func yen(v int64) *int64 { return &v }

func str(v string) *string { return &v }

type seedItem struct {
	name     string
	category string
	price    int64
}

var defaultMenus = []seedItem{
	{"カット", "カットメニュー", 3000},
	{"前髪カット", "カットメニュー", 1000},
	{"メンズシェービング", "顔そりメニュー", 2000},
	{"レディースシェービング", "顔そりメニュー", 1500},
	{"シャンプー・ブロー", "シャンプーメニュー", 2000},
	{"Sカラー", "カラーメニュー", 4000},
	{"Mカラー", "カラーメニュー", 6000},
	{"Lカラー", "カラーメニュー", 8000},
	{"リタッチカラー", "カラーメニュー", 3000},
	{"デザインカラー", "カラーメニュー", 5000},
	{"白髪ぼかし", "カラーメニュー", 3500},
	{"トーンアップ", "トーンアップメニュー", 3000},
	{"ブリーチ1回", "トーンアップメニュー", 4000},
	{"ブリーチ複数回", "トーンアップメニュー", 6000},
	{"パーマ", "パーマメニュー", 8000},
	{"セクション", "パーマメニュー", 5000},
	{"ポイントパーマ", "パーマメニュー", 4000},
	{"デザインパーマ", "パーマメニュー", 6000},
	{"ストレートパーマ", "パーマメニュー", 10000},
	{"ツイストパーマ", "パーマメニュー", 7000},
	{"セクションツイスト", "パーマメニュー", 6000},
	{"コテパーマ", "パーマメニュー", 5000},
	{"セクションコテ", "パーマメニュー", 4000},
	{"S縮毛矯正", "縮毛矯正メニュー", 8000},
	{"M縮毛矯正", "縮毛矯正メニュー", 12000},
	{"L縮毛矯正", "縮毛矯正メニュー", 15000},
	{"セクション縮毛矯正", "縮毛矯正メニュー", 6000},
	{"ポイント縮毛矯正", "縮毛矯正メニュー", 4000},
	{"トリートメント", "トリートメントメニュー", 2000},
	{"ヘッドスパ", "その他メニュー", 1500},
}

var defaultProducts = []seedItem{
	{"シャンプー", "ヘアケア", 2000},
	{"コンディショナー", "ヘアケア", 1800},
	{"トリートメント", "ヘアケア", 2500},
	{"スタイリング剤", "スタイリング", 1500},
	{"ブラシ", "ツール", 800},
	{"ドライヤー", "ツール", 5000},
}

var defaultDiscounts = []entity.DiscountType{
	{Master: entity.Master{Name: "クーポン割引", IsActive: true}, DiscountType: enum.DiscountKindPercentage, DiscountValue: 10},
	{Master: entity.Master{Name: "会員割引", IsActive: true}, DiscountType: enum.DiscountKindPercentage, DiscountValue: 15},
	{Master: entity.Master{Name: "紹介割引", IsActive: true}, DiscountType: enum.DiscountKindPercentage, DiscountValue: 20},
	{Master: entity.Master{Name: "季節割引", IsActive: true}, DiscountType: enum.DiscountKindPercentage, DiscountValue: 5},
	{Master: entity.Master{Name: "固定割引", IsActive: true}, DiscountType: enum.DiscountKindFixed, DiscountValue: 500},
	{Master: entity.Master{Name: "初回割引", IsActive: true}, DiscountType: enum.DiscountKindFixed, DiscountValue: 1000},
	{Master: entity.Master{Name: "その他", IsActive: true}, DiscountType: enum.DiscountKindPercentage, DiscountValue: 0},
}

var (
	defaultStaff           = []string{"下井優太", "田中花子", "佐藤太郎"}
	defaultReferralSources = []string{"顧客紹介", "Instagram", "web検索", "Facebook", "Twitter", "チラシ", "看板", "その他"}
	defaultPaymentMethods  = []string{"現金", "クレジットカード", "電子マネー", "その他"}
)

// seedIfEmpty inserts rows only into an empty table
func seedIfEmpty[T any](db *gorm.DB, rows []T) error {
	var count int64
	if err := db.Model(new(T)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

func seedMasters(db *gorm.DB) error {
	menus := make([]entity.TreatmentMenu, len(defaultMenus))
	for i, m := range defaultMenus {
		menus[i] = entity.TreatmentMenu{
			Master:   entity.Master{Name: m.name, IsActive: true},
			Category: str(m.category),
			Price:    yen(m.price),
		}
	}
	products := make([]entity.RetailProduct, len(defaultProducts))
	for i, p := range defaultProducts {
		products[i] = entity.RetailProduct{
			Master:   entity.Master{Name: p.name, IsActive: true},
			Category: str(p.category),
			Price:    yen(p.price),
		}
	}
	staff := make([]entity.Staff, len(defaultStaff))
	for i, name := range defaultStaff {
		staff[i] = entity.Staff{Master: entity.Master{Name: name, IsActive: true}}
	}
	sources := make([]entity.ReferralSource, len(defaultReferralSources))
	for i, name := range defaultReferralSources {
		sources[i] = entity.ReferralSource{Master: entity.Master{Name: name, IsActive: true}}
	}
	methods := make([]entity.PaymentMethod, len(defaultPaymentMethods))
	for i, name := range defaultPaymentMethods {
		methods[i] = entity.PaymentMethod{Master: entity.Master{Name: name, IsActive: true}}
	}
	discounts := make([]entity.DiscountType, len(defaultDiscounts))
	copy(discounts, defaultDiscounts)

	steps := []func() error{
		func() error { return seedIfEmpty(db, staff) },
		func() error { return seedIfEmpty(db, menus) },
		func() error { return seedIfEmpty(db, products) },
		func() error { return seedIfEmpty(db, sources) },
		func() error { return seedIfEmpty(db, methods) },
		func() error { return seedIfEmpty(db, discounts) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
