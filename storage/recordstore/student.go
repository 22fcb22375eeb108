package recordstore

import (
	"sync"

	"github.com/doctorprep/backend/core/student"
	"github.com/doctorprep/backend/storage/kvstore"
)

type studentRepo struct {
	mu       sync.RWMutex
	store    *kvstore.Store
	students []student.Student
	progress map[int]student.Progress
}

var _ student.Repository = (*studentRepo)(nil)

// NewStudentRepository loads the student and progress collections, seeding
// empty ones when absent.
func NewStudentRepository(store *kvstore.Store) (student.Repository, error) {
	repo := &studentRepo{store: store}
	if err := repo.Reload(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (repo *studentRepo) Reload() error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	students := []student.Student{}
	if err := repo.store.Load(studentsCollection, &students, []student.Student{}); err != nil {
		return err
	}
	progress := map[int]student.Progress{}
	if err := repo.store.Load(progressCollection, &progress, map[int]student.Progress{}); err != nil {
		return err
	}
	repo.students = students
	repo.progress = progress
	return nil
}

func (repo *studentRepo) CheckEmailUniqueness(email string, exclStudents ...student.Student) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, std := range repo.students {
		if std.Email != email {
			continue
		}
		excluded := false
		for _, excl := range exclStudents {
			if excl.ID == std.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepo) CreateStudent(s student.Student) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	maxID := 0
	for _, existing := range repo.students {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	s.ID = maxID + 1
	repo.students = append(repo.students, s)
	repo.store.Save(studentsCollection, repo.students)
	return s, nil
}

func (repo *studentRepo) QueryAllStudents() ([]student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	students := make([]student.Student, len(repo.students))
	copy(students, repo.students)
	return students, nil
}

func (repo *studentRepo) GetStudentByID(id int) (student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, std := range repo.students {
		if std.ID == id {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepo) GetStudentByEmail(email string) (student.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, std := range repo.students {
		if std.Email == email {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

// UpdateStudent merges set fields into the stored record. Zero-valued fields
// are left untouched; progress is applied when non-nil.
func (repo *studentRepo) UpdateStudent(s student.Student, progress *int) (student.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.students {
		if existing.ID != s.ID {
			continue
		}
		if s.Name != "" {
			existing.Name = s.Name
		}
		if s.Email != "" {
			existing.Email = s.Email
		}
		if s.Plan != "" {
			existing.Plan = s.Plan
		}
		if s.Status != "" {
			existing.Status = s.Status
		}
		if len(s.PasswordHash) > 0 {
			existing.PasswordHash = s.PasswordHash
		}
		if progress != nil {
			existing.Progress = *progress
		}
		existing.UpdatedAt = s.UpdatedAt
		repo.students[i] = existing
		repo.store.Save(studentsCollection, repo.students)
		return existing, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepo) DeleteStudentsByID(ids ...int) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := repo.students[:0]
	for _, std := range repo.students {
		if !drop[std.ID] {
			kept = append(kept, std)
		}
	}
	repo.students = kept
	repo.store.Save(studentsCollection, repo.students)
	return nil
}

func (repo *studentRepo) GetProgress(studentID int) (student.Progress, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if prog, ok := repo.progress[studentID]; ok {
		return prog, nil
	}
	return student.Progress{}, student.ErrProgressNotFound
}

func (repo *studentRepo) SaveProgress(p student.Progress) (student.Progress, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.progress[p.StudentID] = p
	repo.store.Save(progressCollection, repo.progress)
	return p, nil
}
