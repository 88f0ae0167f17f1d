package database

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeepkv93/master-items-admin/internal/domain"
	"github.com/sandeepkv93/master-items-admin/internal/security"
)

var seededResources = []string{
	domain.ResourceUsers,
	domain.ResourceRoles,
	domain.ResourcePermissions,
	domain.ResourceMasterItems,
}

var seededVerbs = []string{domain.VerbView, domain.VerbCreate, domain.VerbEdit, domain.VerbDelete}

// DefaultPermissionNames returns every "<verb> <resource>" permission the
// route table checks.
func DefaultPermissionNames() []string {
	out := make([]string, 0, len(seededResources)*len(seededVerbs))
	for _, res := range seededResources {
		for _, verb := range seededVerbs {
			out = append(out, domain.PermissionName(verb, res))
		}
	}
	return out
}

// DefaultRoleGrants maps each seeded role to the permissions it starts with.
func DefaultRoleGrants() map[string][]string {
	return map[string][]string{
		domain.RoleSuperAdmin: DefaultPermissionNames(),
		domain.RoleAdmin: {
			"view users", "create users", "edit users",
			"view roles",
			"view permissions",
			"view master items", "create master items", "edit master items",
		},
		domain.RoleUser: {"view master items"},
	}
}

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

type SeedReport struct {
	CreatedPermissions int    `json:"created_permissions"`
	CreatedRoles       int    `json:"created_roles"`
	BoundPermissions   int    `json:"bound_permissions"`
	BootstrapAdmin     string `json:"bootstrap_admin,omitempty"`
	Noop               bool   `json:"noop"`
}

// Seed makes sure the default permissions and roles exist. Grants are only
// added, never revoked, so edits made through the admin screens survive a
// re-run. When opts names an admin email, that user gets the super-admin
// role; the user is created first if a password is also given.
func Seed(db *gorm.DB, opts SeedOptions) (*SeedReport, error) {
	start := time.Now()
	report := &SeedReport{}
	err := db.Transaction(func(tx *gorm.DB) error {
		byName := make(map[string]domain.Permission)
		for _, name := range DefaultPermissionNames() {
			p := domain.Permission{Name: name}
			res := tx.Where("name = ?", name).FirstOrCreate(&p)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				report.CreatedPermissions++
			}
			byName[name] = p
		}

		for roleName, grants := range DefaultRoleGrants() {
			role := domain.Role{Name: roleName}
			res := tx.Preload("Permissions").Where("name = ?", roleName).FirstOrCreate(&role)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				report.CreatedRoles++
			}
			held := make(map[uint]struct{}, len(role.Permissions))
			for _, p := range role.Permissions {
				held[p.ID] = struct{}{}
			}
			var missing []domain.Permission
			for _, name := range grants {
				if p := byName[name]; p.ID != 0 {
					if _, ok := held[p.ID]; !ok {
						missing = append(missing, p)
					}
				}
			}
			if len(missing) > 0 {
				if err := tx.Model(&role).Association("Permissions").Append(missing); err != nil {
					return err
				}
				report.BoundPermissions += len(missing)
			}
		}

		email := strings.TrimSpace(strings.ToLower(opts.AdminEmail))
		if email == "" {
			return nil
		}
		assigned, err := ensureBootstrapAdmin(tx, email, opts.AdminPassword)
		if err != nil {
			return err
		}
		if assigned {
			report.BoundPermissions++
		}
		report.BootstrapAdmin = email
		return nil
	})
	recordStage("seed", err, start)
	if err != nil {
		return nil, err
	}
	report.Noop = report.CreatedPermissions == 0 && report.CreatedRoles == 0 && report.BoundPermissions == 0
	return report, nil
}

func ensureBootstrapAdmin(tx *gorm.DB, email, password string) (bool, error) {
	var u domain.User
	err := tx.Where("email = ?", email).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if password == "" {
			return false, nil
		}
		hash, err := security.HashPassword(password)
		if err != nil {
			return false, err
		}
		u = domain.User{Name: "Super Admin", Email: email, PasswordHash: hash}
		if err := tx.Omit("Roles").Create(&u).Error; err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	}

	var role domain.Role
	if err := tx.Where("name = ?", domain.RoleSuperAdmin).First(&role).Error; err != nil {
		return false, err
	}
	var count int64
	if err := tx.Table("user_roles").Where("user_id = ? AND role_id = ?", u.ID, role.ID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := tx.Model(&u).Association("Roles").Append(&role); err != nil {
		return false, fmt.Errorf("assign bootstrap admin role: %w", err)
	}
	return true, nil
}

var (
	demoCategories = []string{"Electronics", "Office Supplies", "Furniture", "IT Equipment", "Kitchen Supplies"}
	demoBuyers     = []string{"John Doe", "Jane Smith", "Robert Johnson", "Emily Davis", "Michael Brown"}
)

// SeedDemoItems inserts up to n sample master items with codes ITEM-0001
// onwards, skipping codes that already exist. It returns how many were
// written.
func SeedDemoItems(db *gorm.DB, n int, rng *rand.Rand) (int, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	start := time.Now()
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 1; i <= n; i++ {
			code := fmt.Sprintf("ITEM-%04d", i)
			var exists int64
			if err := tx.Unscoped().Model(&domain.MasterItem{}).Where("item_code = ?", code).Count(&exists).Error; err != nil {
				return err
			}
			if exists > 0 {
				continue
			}
			categoryID := uint64(rng.IntN(100) + 1)
			aol := fmt.Sprintf("AOL-%04d-%c%c%c%c", rng.IntN(10000), 'A'+rng.IntN(26), 'A'+rng.IntN(26), 'A'+rng.IntN(26), 'A'+rng.IntN(26))
			category := demoCategories[rng.IntN(len(demoCategories))]
			buyer := demoBuyers[rng.IntN(len(demoBuyers))]
			item := domain.MasterItem{
				UUID:           uuid.NewString(),
				CategoryItemID: &categoryID,
				AolID:          &aol,
				ItemCode:       code,
				ItemName:       fmt.Sprintf("%s item %d", category, i),
				ItemCategory:   &category,
				Buyer:          &buyer,
				PPN:            float64(rng.IntN(1001)) / 100,
				PPH:            float64(rng.IntN(501)) / 100,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	recordStage("seed_demo_items", err, start)
	return created, err
}
