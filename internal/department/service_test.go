package department_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/haroontrailblazer/College-Departments-Portal/internal"
	departmentDatamodel "github.com/haroontrailblazer/College-Departments-Portal/internal/core/datamodel/department"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/department"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDepartmentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Service Suite")
}

// MockRepository implements department.RepositoryAPI for testing
type MockRepository struct {
	departments []departmentDatamodel.Department
	shouldFail  bool
	failError   error
}

func (m *MockRepository) FindByCredentials(email, passwordHash string) (*departmentDatamodel.Department, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for i := range m.departments {
		d := &m.departments[i]
		if d.Email == email && d.PasswordHash == passwordHash {
			return d, nil
		}
	}
	return nil, department.ErrNotFound
}

func (m *MockRepository) GetNameByID(deptID int64) (string, error) {
	for i := range m.departments {
		if m.departments[i].DeptID == deptID {
			return m.departments[i].DeptName, nil
		}
	}
	return "", department.ErrNotFound
}

// MockActivity captures audit lines so tests can assert what was logged.
type MockActivity struct {
	messages []string
}

func (m *MockActivity) Info(message string) {
	m.messages = append(m.messages, message)
}

var _ = Describe("Department Service", func() {
	var (
		repo     *MockRepository
		activity *MockActivity
		service  *department.Service
	)

	BeforeEach(func() {
		repo = &MockRepository{
			departments: []departmentDatamodel.Department{
				{
					DeptID:       1,
					DeptName:     "Computer Science",
					Email:        "cs@college.edu",
					PasswordHash: department.HashPassword("cs_password123"),
				},
			},
		}
		activity = &MockActivity{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = department.NewService(repo, activity, logger)
	})

	Describe("Authenticate", func() {
		It("binds the department for matching credentials", func() {
			info, err := service.Authenticate("cs@college.edu", "cs_password123")
			Expect(err).NotTo(HaveOccurred())
			Expect(info.DeptID).To(Equal(int64(1)))
			Expect(info.DeptName).To(Equal("Computer Science"))
		})

		It("returns the generic error for a wrong password", func() {
			info, err := service.Authenticate("cs@college.edu", "wrongpass")
			Expect(info).To(BeNil())
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("returns the same generic error for an unknown email", func() {
			_, knownEmailErr := service.Authenticate("cs@college.edu", "wrongpass")
			_, unknownEmailErr := service.Authenticate("nobody@college.edu", "cs_password123")
			Expect(unknownEmailErr).To(Equal(knownEmailErr))
		})

		It("logs only the attempted email on failure", func() {
			_, err := service.Authenticate("cs@college.edu", "wrongpass")
			Expect(err).To(HaveOccurred())
			Expect(activity.messages).To(ConsistOf("Failed login attempt: cs@college.edu"))
		})

		It("rejects empty credentials before hitting the store", func() {
			_, err := service.Authenticate("   ", "")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(activity.messages).To(BeEmpty())
		})

		It("wraps repository failures as store errors", func() {
			repo.shouldFail = true
			repo.failError = errors.New("disk error")

			_, err := service.Authenticate("cs@college.edu", "cs_password123")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeStore))
			Expect(appErr.Message).To(Equal("Authentication system error"))
		})
	})

	Describe("HashPassword", func() {
		It("is deterministic", func() {
			Expect(department.HashPassword("cs_password123")).To(Equal(department.HashPassword("cs_password123")))
		})

		It("produces a hex SHA-256 digest", func() {
			Expect(department.HashPassword("x")).To(HaveLen(64))
		})
	})
})
