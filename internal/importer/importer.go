// Package importer converts the accommodation office's check-in workbook into
// registry records.
package importer

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"sort"
	"strings"

	"hostelpass/internal/errors"
	"hostelpass/internal/logging"
	"hostelpass/internal/models"
)

// Column headers read from each worksheet.
const (
	ColRoomStatus  = "ROOM STATUS"
	ColStudentID   = "STUDENT ID"
	ColName        = "STUDENT / RESIDENT / RESERVED"
	ColRoom        = "ROOM NO"
	ColProgramme   = "PROG"
	ColNationality = "NAT."
)

// sheets pairs each worksheet with the gender of the residents listed on it.
var sheets = []struct {
	path   string
	gender models.Gender
}{
	{"xl/worksheets/sheet1.xml", models.Male},
	{"xl/worksheets/sheet2.xml", models.Female},
}

// Replacer receives the imported collection.
type Replacer interface {
	Replace(residents []models.Resident) error
}

// Result summarises one import run.
type Result struct {
	Rows      int
	Residents []models.Resident
}

// Skipped is the number of rows that did not become a resident.
func (r Result) Skipped() int { return r.Rows - len(r.Residents) }

// ReadFile parses the workbook at path.
func ReadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrImport, "open %s", path)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrImport, "stat %s", path)
	}

	wb, err := openWorkbook(f, info.Size())
	if err != nil {
		return Result{}, err
	}
	return parse(wb)
}

// ImportFile parses the workbook and replaces the store's collection with it.
func ImportFile(path string, store Replacer) (Result, error) {
	log := logging.GetLogger("importer")
	res, err := ReadFile(path)
	if err != nil {
		return res, err
	}
	if err := store.Replace(res.Residents); err != nil {
		return res, err
	}
	log.Info().
		Str("workbook", path).
		Int("rows", res.Rows).
		Int("imported", len(res.Residents)).
		Msg("Workbook imported")
	return res, nil
}

func parse(wb *workbook) (Result, error) {
	var res Result
	seen := map[string]struct{}{}
	for _, sh := range sheets {
		rows, err := wb.rows(sh.path)
		if err != nil {
			return Result{}, err
		}
		res.Rows += len(rows)
		for _, row := range rows {
			r, ok := RowToResident(row, sh.gender)
			if !ok {
				continue
			}
			// A student listed twice in the same room maps to one record.
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			res.Residents = append(res.Residents, r)
		}
	}
	sort.SliceStable(res.Residents, func(i, j int) bool {
		a, b := res.Residents[i], res.Residents[j]
		if a.Block != b.Block {
			return a.Block < b.Block
		}
		if a.RoomNumber != b.RoomNumber {
			return a.RoomNumber < b.RoomNumber
		}
		return a.Name < b.Name
	})
	if res.Residents == nil {
		res.Residents = []models.Resident{}
	}
	return res, nil
}

// RowToResident converts one worksheet row. Rows that are not checked in, lack
// an id, name or room, or sit outside the known blocks are rejected.
func RowToResident(row map[string]string, gender models.Gender) (models.Resident, bool) {
	if !strings.EqualFold(strings.TrimSpace(row[ColRoomStatus]), "CHECKED IN") {
		return models.Resident{}, false
	}
	studentID := strings.TrimSpace(row[ColStudentID])
	name := strings.TrimSpace(row[ColName])
	rawRoom := strings.TrimSpace(row[ColRoom])
	if studentID == "" || name == "" || rawRoom == "" {
		return models.Resident{}, false
	}
	block := blockOf(rawRoom)
	if !block.Valid() {
		return models.Resident{}, false
	}
	room := NormalizeRoom(rawRoom)
	programme := strings.TrimSpace(row[ColProgramme])
	if programme == "" {
		programme = "Unknown"
	}
	return models.Resident{
		ID:         RecordID(studentID, room),
		StudentID:  studentID,
		Name:       name,
		Programme:  programme,
		RoomNumber: room,
		Gender:     gender,
		Status:     statusFor(row[ColNationality]),
		Block:      block,
	}, true
}

// NormalizeRoom turns "ha/1\05" style room codes into "HA-1-05".
func NormalizeRoom(room string) string {
	clean := strings.ToUpper(strings.TrimSpace(room))
	if clean == "" {
		return clean
	}
	var tokens []string
	for _, tok := range strings.Split(strings.ReplaceAll(clean, `\`, "/"), "/") {
		if tok != "" && tok != "-" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return clean
	}
	return strings.Join(tokens, "-")
}

// RecordID is stable for a student in a given room, so re-importing the same
// workbook keeps pass links valid.
func RecordID(studentID, room string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(studentID) + "|" + room))
	return hex.EncodeToString(sum[:])[:20]
}

func blockOf(room string) models.Block {
	clean := strings.ToUpper(strings.TrimSpace(room))
	if len(clean) < 2 {
		return models.Block(clean)
	}
	return models.Block(clean[:2])
}

func statusFor(nationality string) models.Status {
	n := strings.ToLower(strings.TrimSpace(nationality))
	if n == "" || strings.Contains(n, "malay") {
		return models.Local
	}
	return models.International
}
