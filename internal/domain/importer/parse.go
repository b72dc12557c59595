package importer

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"hrdash/internal/domain/core"
)

// Row is one parsed spreadsheet line. Line is 1-based and counts the header.
type Row struct {
	Line       int
	Employee   core.Employee
	Department string
	Branch     string
	Shift      string
}

type RowError struct {
	Line    int    `json:"line"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}

var (
	validate     = validator.New()
	arabicDigits = strings.NewReplacer("٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4", "٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9", "٫", ".", "٬", "")
	dateLayouts  = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006", "2006/01/02", "01-Jan-2006", "2 Jan 2006"}
	errBadSalary = errors.New("invalid basic salary")
	errBadDate   = errors.New("invalid hire date")
	errNoName    = errors.New("first name is required")
	errBadEmail  = errors.New("invalid email")
	errNegSalary = errors.New("basic salary cannot be negative")
)

// ParseRows converts data rows (header excluded) into employees. Rows that
// fail validation are reported and left out.
func ParseRows(cols map[Field]int, rows [][]string) ([]Row, []RowError) {
	var out []Row
	var errs []RowError
	for i, raw := range rows {
		line := i + 2
		row, err := parseRow(cols, raw)
		if err != nil {
			errs = append(errs, RowError{Line: line, Email: cell(raw, cols, FieldEmail), Message: err.Error()})
			continue
		}
		row.Line = line
		out = append(out, row)
	}
	return out, errs
}

func parseRow(cols map[Field]int, raw []string) (Row, error) {
	emp := core.Employee{
		FirstName: cell(raw, cols, FieldFirstName),
		LastName:  cell(raw, cols, FieldLastName),
		Email:     strings.ToLower(cell(raw, cols, FieldEmail)),
		Phone:     arabicDigits.Replace(cell(raw, cols, FieldPhone)),
		JobTitle:  cell(raw, cols, FieldJobTitle),
		Status:    core.StatusActive,
	}
	if emp.FirstName == "" {
		emp.FirstName, emp.LastName = splitFullName(cell(raw, cols, FieldFullName), emp.LastName)
	}
	if emp.FirstName == "" {
		return Row{}, errNoName
	}
	if err := validate.Var(emp.Email, "required,email"); err != nil {
		return Row{}, errBadEmail
	}
	if value := cell(raw, cols, FieldSalary); value != "" {
		salary, err := ParseAmount(value)
		if err != nil {
			return Row{}, errBadSalary
		}
		if salary < 0 {
			return Row{}, errNegSalary
		}
		emp.BasicSalary = salary
	}
	if value := cell(raw, cols, FieldHireDate); value != "" {
		hired, err := ParseDate(value)
		if err != nil {
			return Row{}, errBadDate
		}
		emp.HireDate = &hired
	}
	return Row{
		Employee:   emp,
		Department: cell(raw, cols, FieldDepartment),
		Branch:     cell(raw, cols, FieldBranch),
		Shift:      cell(raw, cols, FieldShift),
	}, nil
}

func cell(row []string, cols map[Field]int, field Field) string {
	idx, ok := cols[field]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func splitFullName(full, last string) (string, string) {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "", last
	}
	if last != "" || len(fields) == 1 {
		return strings.Join(fields, " "), last
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// ParseAmount accepts Western or Arabic-Indic digits with optional
// thousands separators.
func ParseAmount(value string) (float64, error) {
	value = arabicDigits.Replace(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, ",", "")
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(value, "EGP"), "ج.م"))
	return strconv.ParseFloat(value, 64)
}

// ParseDate accepts ISO and day-first layouts plus Excel serial numbers.
func ParseDate(value string) (time.Time, error) {
	value = arabicDigits.Replace(strings.TrimSpace(value))
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= 1 && serial <= 80000 {
			return excelize.ExcelDateToTime(serial, false)
		}
		return time.Time{}, errBadDate
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errBadDate
}
