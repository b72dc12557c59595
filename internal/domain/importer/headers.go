package importer

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type Field string

const (
	FieldFirstName  Field = "first_name"
	FieldLastName   Field = "last_name"
	FieldFullName   Field = "full_name"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldJobTitle   Field = "job_title"
	FieldDepartment Field = "department"
	FieldBranch     Field = "branch"
	FieldShift      Field = "shift"
	FieldSalary     Field = "basic_salary"
	FieldHireDate   Field = "hire_date"
)

var headerAliases = map[Field][]string{
	FieldFirstName:  {"first name", "firstname", "given name", "الاسم الأول", "الاسم الاول"},
	FieldLastName:   {"last name", "lastname", "surname", "family name", "اسم العائلة", "الاسم الأخير", "اللقب"},
	FieldFullName:   {"name", "full name", "employee name", "الاسم", "الاسم الكامل", "اسم الموظف"},
	FieldEmail:      {"email", "e-mail", "email address", "البريد الإلكتروني", "البريد الالكتروني", "الإيميل"},
	FieldPhone:      {"phone", "mobile", "phone number", "الهاتف", "رقم الهاتف", "الجوال", "الموبايل"},
	FieldJobTitle:   {"job title", "title", "position", "المسمى الوظيفي", "الوظيفة"},
	FieldDepartment: {"department", "dept", "القسم", "الإدارة"},
	FieldBranch:     {"branch", "office", "الفرع"},
	FieldShift:      {"shift", "الوردية", "الدوام"},
	FieldSalary:     {"basic salary", "salary", "الراتب الأساسي", "الراتب الاساسي", "الراتب"},
	FieldHireDate:   {"hire date", "joining date", "start date", "تاريخ التعيين", "تاريخ الالتحاق"},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]Field {
	idx := map[string]Field{}
	for field, aliases := range headerAliases {
		idx[NormalizeHeader(string(field))] = field
		for _, alias := range aliases {
			idx[NormalizeHeader(alias)] = field
		}
	}
	return idx
}

// NormalizeHeader folds a header cell to its lookup key: NFC-composed,
// lower-cased, underscores as spaces, inner whitespace collapsed.
func NormalizeHeader(header string) string {
	header = strings.TrimPrefix(header, "\ufeff")
	header = norm.NFC.String(header)
	header = strings.ReplaceAll(header, "_", " ")
	header = strings.ReplaceAll(header, "\u0640", "")
	return strings.ToLower(strings.Join(strings.Fields(header), " "))
}

// MapHeaders resolves column positions. The first matching column wins.
// An email column and some form of name are required.
func MapHeaders(header []string) (map[Field]int, error) {
	cols := map[Field]int{}
	for i, cell := range header {
		field, ok := aliasIndex[NormalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := cols[field]; !seen {
			cols[field] = i
		}
	}
	if _, ok := cols[FieldEmail]; !ok {
		return nil, fmt.Errorf("missing email column")
	}
	_, hasFirst := cols[FieldFirstName]
	_, hasFull := cols[FieldFullName]
	if !hasFirst && !hasFull {
		return nil, fmt.Errorf("missing name column")
	}
	return cols, nil
}
