package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"attendly/internal/domain/users"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string]Record
	dir     *fakeDirectory
	seq     int
}

func newFakeStore(dir *fakeDirectory) *fakeStore {
	return &fakeStore{records: map[string]Record{}, dir: dir}
}

func recordKey(userID, date string) string {
	return userID + "|" + date
}

func (f *fakeStore) put(rec Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec-%d", f.seq)
	}
	f.records[recordKey(rec.UserID, rec.Date)] = rec
}

func (f *fakeStore) get(userID, date string) (Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[recordKey(userID, date)]
	return rec, ok
}

func (f *fakeStore) InsertCheckIn(_ context.Context, userID string, date, at time.Time, status Status) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(userID, date.Format(DateLayout))
	if _, ok := f.records[key]; ok {
		return Record{}, ErrAlreadyCheckedIn
	}
	f.seq++
	in := at
	rec := Record{ID: fmt.Sprintf("rec-%d", f.seq), UserID: userID, Date: date.Format(DateLayout), CheckInTime: &in, Status: status, CreatedAt: at}
	f.records[key] = rec
	return rec, nil
}

func (f *fakeStore) GetRecord(_ context.Context, userID string, date time.Time) (Record, error) {
	rec, ok := f.get(userID, date.Format(DateLayout))
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeStore) CloseRecord(_ context.Context, userID string, date, at time.Time, hours float64, status Status) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(userID, date.Format(DateLayout))
	rec, ok := f.records[key]
	if !ok || rec.CheckOutTime != nil {
		return Record{}, ErrRecordNotOpen
	}
	out := at
	rec.CheckOutTime = &out
	rec.TotalHours = hours
	rec.Status = status
	f.records[key] = rec
	return rec, nil
}

func (f *fakeStore) sorted(match func(Record) bool) []Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Record{}
	for _, rec := range f.records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeStore) ListByUser(_ context.Context, userID string, limit int) ([]Record, error) {
	out := f.sorted(func(r Record) bool { return r.UserID == userID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListByUserRange(_ context.Context, userID string, from, to time.Time) ([]Record, error) {
	lo, hi := from.Format(DateLayout), to.Format(DateLayout)
	return f.sorted(func(r Record) bool { return r.UserID == userID && r.Date >= lo && r.Date <= hi }), nil
}

func (f *fakeStore) matching(filter Filter) []Record {
	return f.sorted(func(r Record) bool {
		if filter.UserID != "" && r.UserID != filter.UserID {
			return false
		}
		if filter.From != nil && r.Date < filter.From.Format(DateLayout) {
			return false
		}
		if filter.To != nil && r.Date > filter.To.Format(DateLayout) {
			return false
		}
		if filter.Status != "" && r.Status != filter.Status {
			return false
		}
		return true
	})
}

func (f *fakeStore) ListJoined(_ context.Context, filter Filter, limit, offset int) ([]JoinedRecord, error) {
	recs := f.matching(filter)
	if offset > len(recs) {
		offset = len(recs)
	}
	recs = recs[offset:]
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	out := []JoinedRecord{}
	for _, r := range recs {
		out = append(out, JoinedRecord{Record: r, User: f.dir.ref(r.UserID)})
	}
	return out, nil
}

func (f *fakeStore) CountJoined(_ context.Context, filter Filter) (int, error) {
	return len(f.matching(filter)), nil
}

func (f *fakeStore) CountByDay(_ context.Context, from, to time.Time) (map[string]int, error) {
	out := map[string]int{}
	for _, r := range f.matching(Filter{From: &from, To: &to}) {
		out[r.Date]++
	}
	return out, nil
}

func (f *fakeStore) StatusCountsByDepartment(_ context.Context, from, to *time.Time) ([]DepartmentStatusCount, error) {
	type key struct {
		dept   string
		status Status
	}
	grouped := map[key]int{}
	for _, r := range f.matching(Filter{From: from, To: to}) {
		ref := f.dir.ref(r.UserID)
		if ref == nil {
			continue
		}
		grouped[key{ref.Department, r.Status}]++
	}
	out := []DepartmentStatusCount{}
	for k, n := range grouped {
		out = append(out, DepartmentStatusCount{Department: k.dept, Status: k.status, Count: n})
	}
	return out, nil
}

type fakeDirectory struct {
	users []users.User
}

func (d *fakeDirectory) ref(id string) *UserRef {
	for _, u := range d.users {
		if u.ID == id {
			return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, EmployeeID: u.EmployeeID, Department: u.Department}
		}
	}
	return nil
}

func (d *fakeDirectory) GetByID(_ context.Context, id string) (users.User, error) {
	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (d *fakeDirectory) GetByEmployeeID(_ context.Context, employeeID string) (users.User, error) {
	for _, u := range d.users {
		if u.EmployeeID == employeeID {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (d *fakeDirectory) List(_ context.Context) ([]users.User, error) {
	return d.users, nil
}

func (d *fakeDirectory) ListByRole(_ context.Context, role string) ([]users.User, error) {
	var out []users.User
	for _, u := range d.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func day(value string) time.Time {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}
