package sqlite

import (
	"strings"
	"sync"
	"testing"
	"time"

	departmentDatamodel "github.com/haroontrailblazer/College-Departments-Portal/internal/core/datamodel/department"
	entryDatamodel "github.com/haroontrailblazer/College-Departments-Portal/internal/core/datamodel/entry"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/entry"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEntryRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "EntryRepository Suite")
}

var _ = Describe("EntryRepository", func() {
	var (
		db     *gorm.DB
		repo   *Repository
		deptID int64
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&departmentDatamodel.Department{}, &entryDatamodel.DataEntry{})).To(Succeed())

		dept := departmentDatamodel.Department{
			DeptName:     "Computer Science",
			Email:        "cs@college.edu",
			PasswordHash: "hash",
		}
		Expect(db.Create(&dept).Error).To(Succeed())
		deptID = dept.DeptID

		repo = NewRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Insert", func() {
		It("assigns sequential identifiers starting at one", func() {
			first, err := repo.Insert(deptID, "Student Records", "fifty students")
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(Equal(int64(1)))

			second, err := repo.Insert(deptID, "Budget", "annual budget")
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(int64(2)))
		})

		It("stamps rows with a creation time", func() {
			id, err := repo.Insert(deptID, "Budget", "annual budget")
			Expect(err).NotTo(HaveOccurred())

			var row entryDatamodel.DataEntry
			Expect(db.First(&row, "entry_id = ?", id).Error).To(Succeed())
			Expect(row.CreatedAt).To(BeTemporally("~", time.Now(), 5*time.Second))
		})

		It("hands out distinct identifiers to concurrent inserts", func() {
			const writers = 8

			ids := make([]int64, writers)
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					id, err := repo.Insert(deptID, "Student Records", "concurrent entry")
					Expect(err).NotTo(HaveOccurred())
					ids[i] = id
				}(i)
			}
			wg.Wait()

			seen := make(map[int64]bool)
			for _, id := range ids {
				Expect(seen[id]).To(BeFalse(), "entry id %d assigned twice", id)
				seen[id] = true
			}
		})
	})

	Describe("Recent", func() {
		BeforeEach(func() {
			// Backdated rows so ordering by creation time is unambiguous.
			base := time.Now().Add(-time.Hour)
			for i := 0; i < 5; i++ {
				row := entryDatamodel.DataEntry{
					DeptID:      deptID,
					EntryType:   "Student Records",
					DataContent: strings.Repeat("x", 150),
					CreatedAt:   base.Add(time.Duration(i) * time.Minute),
				}
				Expect(db.Create(&row).Error).To(Succeed())
			}
		})

		It("returns the most recent entries first", func() {
			rows, err := repo.Recent(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(5))
			for i := 1; i < len(rows); i++ {
				Expect(rows[i].CreatedAt.After(rows[i-1].CreatedAt)).To(BeFalse())
			}
		})

		It("never exceeds the requested limit", func() {
			rows, err := repo.Recent(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("truncates previews to the preview length", func() {
			rows, err := repo.Recent(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].ContentPreview).To(HaveLen(entry.PreviewLength))
		})

		It("keeps short content intact", func() {
			_, err := repo.Insert(deptID, "Budget", strings.Repeat("A", 50))
			Expect(err).NotTo(HaveOccurred())

			rows, err := repo.Recent(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].ContentPreview).To(Equal(strings.Repeat("A", 50)))
		})

		It("carries the owning department name", func() {
			rows, err := repo.Recent(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].DeptName).To(Equal("Computer Science"))
		})
	})
})
