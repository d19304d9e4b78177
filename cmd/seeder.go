package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	departmentDatamodel "github.com/haroontrailblazer/College-Departments-Portal/internal/core/datamodel/department"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/department"
)

// sampleDepartments are the out-of-band seeded tenants. Credentials are for
// development and testing only.
var sampleDepartments = []struct {
	Name     string
	Email    string
	Password string
}{
	{"Computer Science", "cs@college.edu", "cs_password123"},
	{"Mathematics", "math@college.edu", "math_password123"},
	{"Physics", "physics@college.edu", "physics_password123"},
	{"Chemistry", "chemistry@college.edu", "chem_password123"},
	{"Biology", "bio@college.edu", "bio_password123"},
	{"English", "english@college.edu", "eng_password123"},
	{"Engineering", "eng@college.edu", "eng_password123"},
	{"Business", "business@college.edu", "business_password123"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample departments",
	Long:  `Seed the database with sample departments for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"data_entries", "system_logs", "departments"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		added := 0
		for _, sample := range sampleDepartments {
			var count int64
			err := db.Model(&departmentDatamodel.Department{}).
				Where("email = ?", sample.Email).
				Count(&count).Error
			if err != nil {
				log.Fatalf("failed to check department %s: %v", sample.Name, err)
			}
			if count > 0 {
				fmt.Printf("Department %s already exists\n", sample.Name)
				continue
			}

			record := departmentDatamodel.Department{
				DeptName:     sample.Name,
				Email:        sample.Email,
				PasswordHash: department.HashPassword(sample.Password),
			}
			if err := db.Create(&record).Error; err != nil {
				log.Fatalf("failed to insert department %s: %v", sample.Name, err)
			}
			fmt.Printf("Added department: %s (%s)\n", sample.Name, sample.Email)
			added++
		}

		fmt.Printf("Seeding completed: %d new departments\n", added)
	},
}
