package entry_test

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/haroontrailblazer/College-Departments-Portal/internal"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/department"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/entry"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEntryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Entry Service Suite")
}

// MockRepository implements entry.RepositoryAPI for testing
type MockRepository struct {
	inserted   []insertedEntry
	recentRows []entry.RecentEntry
	shouldFail bool
	failError  error
}

type insertedEntry struct {
	DeptID    int64
	EntryType string
	Content   string
}

func (m *MockRepository) Insert(deptID int64, entryType, content string) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	m.inserted = append(m.inserted, insertedEntry{DeptID: deptID, EntryType: entryType, Content: content})
	return int64(len(m.inserted)), nil
}

func (m *MockRepository) Recent(limit int) ([]entry.RecentEntry, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	if limit > len(m.recentRows) {
		limit = len(m.recentRows)
	}
	return m.recentRows[:limit], nil
}

type MockDepartments struct {
	names map[int64]string
}

func (m *MockDepartments) GetNameByID(deptID int64) (string, error) {
	name, ok := m.names[deptID]
	if !ok {
		return "", department.ErrNotFound
	}
	return name, nil
}

type MockExporter struct {
	calls      int
	shouldFail bool
}

func (m *MockExporter) AutoExport() (string, error) {
	m.calls++
	if m.shouldFail {
		return "", errors.New("disk full")
	}
	return "college_data_export_test.csv", nil
}

type MockActivity struct {
	infos  []string
	errors []string
}

func (m *MockActivity) Info(message string)  { m.infos = append(m.infos, message) }
func (m *MockActivity) Error(message string) { m.errors = append(m.errors, message) }

var _ = Describe("Entry Service", func() {
	var (
		repo     *MockRepository
		depts    *MockDepartments
		exporter *MockExporter
		activity *MockActivity
		service  *entry.Service
	)

	BeforeEach(func() {
		repo = &MockRepository{}
		depts = &MockDepartments{names: map[int64]string{1: "Computer Science"}}
		exporter = &MockExporter{}
		activity = &MockActivity{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = entry.NewService(repo, depts, exporter, activity, logger)
	})

	Describe("Submit", func() {
		It("persists a valid entry and reports its id and department", func() {
			result, err := service.Submit(1, entry.SubmitDTO{
				EntryType:   "Student Records",
				DataContent: strings.Repeat("A", 50),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.EntryID).To(Equal(int64(1)))
			Expect(result.DeptName).To(Equal("Computer Science"))
			Expect(repo.inserted).To(HaveLen(1))
		})

		It("trims entry type and content before persisting", func() {
			_, err := service.Submit(1, entry.SubmitDTO{
				EntryType:   "  Student Records  ",
				DataContent: "  enrolment numbers  ",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.inserted[0].EntryType).To(Equal("Student Records"))
			Expect(repo.inserted[0].Content).To(Equal("enrolment numbers"))
		})

		It("rejects an empty entry type", func() {
			_, err := service.Submit(1, entry.SubmitDTO{EntryType: "   ", DataContent: "data"})
			expectValidationError(err, "Entry type is required")
			Expect(repo.inserted).To(BeEmpty())
		})

		It("rejects empty content", func() {
			_, err := service.Submit(1, entry.SubmitDTO{EntryType: "Budget", DataContent: ""})
			expectValidationError(err, "Data content is required")
			Expect(repo.inserted).To(BeEmpty())
		})

		It("rejects content longer than the limit", func() {
			_, err := service.Submit(1, entry.SubmitDTO{
				EntryType:   "Budget",
				DataContent: strings.Repeat("x", entry.MaxContentLength+1),
			})
			expectValidationError(err, "Content too long (max 10000 characters)")
			Expect(repo.inserted).To(BeEmpty())
		})

		It("accepts content exactly at the limit", func() {
			_, err := service.Submit(1, entry.SubmitDTO{
				EntryType:   "Budget",
				DataContent: strings.Repeat("x", entry.MaxContentLength),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("measures the content limit in characters, not bytes", func() {
			// 4000 three-byte runes: well under the character limit even
			// though the byte count exceeds it.
			_, err := service.Submit(1, entry.SubmitDTO{
				EntryType:   "Budget",
				DataContent: strings.Repeat("学", 4000),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects multibyte content beyond the character limit", func() {
			_, err := service.Submit(1, entry.SubmitDTO{
				EntryType:   "Budget",
				DataContent: strings.Repeat("学", entry.MaxContentLength+1),
			})
			expectValidationError(err, "Content too long (max 10000 characters)")
		})

		It("rejects an unknown department", func() {
			_, err := service.Submit(42, entry.SubmitDTO{EntryType: "Budget", DataContent: "data"})
			Expect(err).To(Equal(internal.ErrUnknownDepartment))
		})

		It("triggers the auto-export after a successful submit", func() {
			_, err := service.Submit(1, entry.SubmitDTO{EntryType: "Budget", DataContent: "data"})
			Expect(err).NotTo(HaveOccurred())
			Expect(exporter.calls).To(Equal(1))
		})

		It("succeeds even when the auto-export fails", func() {
			exporter.shouldFail = true

			result, err := service.Submit(1, entry.SubmitDTO{EntryType: "Budget", DataContent: "data"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.EntryID).To(Equal(int64(1)))
			Expect(activity.errors).To(HaveLen(1))
			Expect(activity.errors[0]).To(ContainSubstring("CSV auto-export error"))
		})

		It("does not export when the insert fails", func() {
			repo.shouldFail = true
			repo.failError = errors.New("constraint violation")

			_, err := service.Submit(1, entry.SubmitDTO{EntryType: "Budget", DataContent: "data"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeStore))
			Expect(exporter.calls).To(BeZero())
		})
	})

	Describe("Recent", func() {
		BeforeEach(func() {
			now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
			for i := 0; i < 20; i++ {
				repo.recentRows = append(repo.recentRows, entry.RecentEntry{
					DeptName:       "Computer Science",
					EntryType:      "Student Records",
					ContentPreview: "preview",
					CreatedAt:      now.Add(-time.Duration(i) * time.Minute),
				})
			}
		})

		It("defaults the limit when none is given", func() {
			summaries, err := service.Recent(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(entry.DefaultRecentLimit))
		})

		It("caps oversized limits", func() {
			repo.recentRows = make([]entry.RecentEntry, 200)
			summaries, err := service.Recent(500)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(entry.MaxRecentLimit))
		})

		It("formats timestamps for the wire", func() {
			summaries, err := service.Recent(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries[0].CreatedAt).To(Equal("2025-09-01 12:00:00"))
		})
	})
})

func expectValidationError(err error, message string) {
	appErr, ok := internal.IsAppError(err)
	ExpectWithOffset(1, ok).To(BeTrue())
	ExpectWithOffset(1, appErr.Type).To(Equal(internal.ErrorTypeValidation))
	ExpectWithOffset(1, appErr.Message).To(Equal(message))
}
