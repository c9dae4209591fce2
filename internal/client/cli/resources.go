package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/medrecords/internal/client/client"
	"github.com/dmitrijs2005/medrecords/internal/client/models"
)

const resourceNames = "patients, doctors, cases, appointments, prescriptions, users, admin-patients"

var (
	clinicalRoles = []models.Role{models.RoleDoctor, models.RoleReceptionist, models.RoleAdmin}
	adminRoles    = []models.Role{models.RoleAdmin}
)

// resourceOps is a type-erased view of a client.Resource, plus the roles
// whose dashboards may use it and the columns shown by list.
type resourceOps struct {
	name     string
	roles    []models.Role
	columns  []string
	readOnly bool

	list   func(ctx context.Context, q url.Values) (any, error)
	get    func(ctx context.Context, id int64) (any, error)
	create func(ctx context.Context, payload map[string]any) (any, error)
	update func(ctx context.Context, id int64, payload map[string]any) (any, error)
	remove func(ctx context.Context, id int64) error
}

func bindResource[T any](name string, r *client.Resource[T], columns []string, roles ...models.Role) resourceOps {
	return resourceOps{
		name:    name,
		roles:   roles,
		columns: columns,
		list: func(ctx context.Context, q url.Values) (any, error) {
			return r.List(ctx, q)
		},
		get: func(ctx context.Context, id int64) (any, error) {
			return r.Get(ctx, id)
		},
		create: func(ctx context.Context, payload map[string]any) (any, error) {
			return r.Create(ctx, payload)
		},
		update: func(ctx context.Context, id int64, payload map[string]any) (any, error) {
			return r.Update(ctx, id, payload)
		},
		remove: r.Delete,
	}
}

func resourceRegistry(r *client.Records) map[string]resourceOps {
	patientCols := []string{"id", "first_name", "last_name", "date_of_birth", "attending_doctor"}

	doctors := bindResource("doctors", r.Doctors, []string{"id", "user.first_name", "user.last_name", "specialty", "license_number"}, clinicalRoles...)
	doctors.readOnly = true

	all := []resourceOps{
		bindResource("patients", r.Patients, patientCols, clinicalRoles...),
		doctors,
		bindResource("cases", r.Cases, []string{"id", "case_number", "name", "patient_name", "assigned_doctor_names"}, clinicalRoles...),
		bindResource("appointments", r.Appointments, []string{"id", "appointment_number", "patient_name", "doctor_name", "scheduled_at", "status"}, clinicalRoles...),
		bindResource("prescriptions", r.Prescriptions, []string{"id", "prescription_number", "case", "patient", "details"}, clinicalRoles...),
		bindResource("users", r.AdminUsers, []string{"id", "username", "first_name", "last_name", "role", "is_active"}, adminRoles...),
		bindResource("admin-patients", r.AdminPatients, patientCols, adminRoles...),
	}

	reg := make(map[string]resourceOps, len(all))
	for _, ops := range all {
		reg[ops.name] = ops
	}
	return reg
}

// resource resolves the resource named in args[0] and runs the guard.
func (a *App) resource(ctx context.Context, args []string, usage string) (resourceOps, bool) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage:", usage)
		return resourceOps{}, false
	}
	ops, ok := a.resources[args[0]]
	if !ok {
		fmt.Fprintf(a.out, "Unknown resource %q. Resources: %s\n", args[0], resourceNames)
		return resourceOps{}, false
	}
	return ops, a.authorize(ctx, ops)
}

func (a *App) resourceWithID(ctx context.Context, args []string, usage string) (resourceOps, int64, bool) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage:", usage)
		return resourceOps{}, 0, false
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(a.out, "Invalid id %q\n", args[1])
		return resourceOps{}, 0, false
	}
	ops, ok := a.resource(ctx, args, usage)
	return ops, id, ok
}

// List prints a resource as a table. Extra name=value args become query
// filters, e.g. "list appointments doctor=3".
func (a *App) List(ctx context.Context, args []string) error {
	ops, ok := a.resource(ctx, args, "list <resource> [name=value...]")
	if !ok {
		return nil
	}

	q := url.Values{}
	for _, f := range args[1:] {
		name, value, found := strings.Cut(f, "=")
		if !found || name == "" {
			fmt.Fprintf(a.out, "Invalid filter %q: expected name=value\n", f)
			return nil
		}
		q.Add(name, value)
	}

	items, err := ops.list(ctx, q)
	if err != nil {
		a.fail(ctx, err, "Failed to load "+ops.name)
		return err
	}
	return renderTable(a.out, ops.columns, items)
}

// Show prints one item as indented JSON.
func (a *App) Show(ctx context.Context, args []string) error {
	ops, id, ok := a.resourceWithID(ctx, args, "show <resource> <id>")
	if !ok {
		return nil
	}

	item, err := ops.get(ctx, id)
	if err != nil {
		a.fail(ctx, err, "Failed to load "+ops.name)
		return err
	}
	return renderItem(a.out, item)
}

func (a *App) New(ctx context.Context, args []string) error {
	ops, ok := a.resource(ctx, args, "new <resource>")
	if !ok {
		return nil
	}
	if ops.readOnly {
		fmt.Fprintf(a.out, "%s is read-only\n", ops.name)
		return nil
	}

	payload, err := a.readPayload()
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}

	item, err := ops.create(ctx, payload)
	if err != nil {
		a.fail(ctx, err, "Failed to create "+ops.name)
		return err
	}
	fmt.Fprintln(a.out, "Created:")
	return renderItem(a.out, item)
}

// Edit sends only the fields entered, as a partial update.
func (a *App) Edit(ctx context.Context, args []string) error {
	ops, id, ok := a.resourceWithID(ctx, args, "edit <resource> <id>")
	if !ok {
		return nil
	}
	if ops.readOnly {
		fmt.Fprintf(a.out, "%s is read-only\n", ops.name)
		return nil
	}

	payload, err := a.readPayload()
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if len(payload) == 0 {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	item, err := ops.update(ctx, id, payload)
	if err != nil {
		a.fail(ctx, err, "Failed to update "+ops.name)
		return err
	}
	fmt.Fprintln(a.out, "Updated:")
	return renderItem(a.out, item)
}

func (a *App) Delete(ctx context.Context, args []string) error {
	ops, id, ok := a.resourceWithID(ctx, args, "delete <resource> <id>")
	if !ok {
		return nil
	}
	if ops.readOnly {
		fmt.Fprintf(a.out, "%s is read-only\n", ops.name)
		return nil
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %s %d? Type yes to confirm", ops.name, id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := ops.remove(ctx, id); err != nil {
		a.fail(ctx, err, "Failed to delete "+ops.name)
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s %d\n", ops.name, id)
	return nil
}

func (a *App) readPayload() (map[string]any, error) {
	lines, err := GetFields(a.reader, a.out)
	if err != nil {
		return nil, err
	}
	return ParseFields(lines)
}

var errNotAList = errors.New("response is not a list")

// renderTable prints items, any JSON-encodable slice, as aligned columns.
// Nested values are addressed with dots, e.g. "user.last_name".
func renderTable(w io.Writer, columns []string, items any) error {
	rows, err := toMaps(items)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No records")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = formatValue(lookup(row, c))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func renderItem(w io.Writer, item any) error {
	b, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func toMaps(items any) ([]map[string]any, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", errNotAList, err)
	}
	return rows, nil
}

func lookup(row map[string]any, path string) any {
	var cur any = row
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "{" + strings.Join(keys, ",") + "}"
	}
	return fmt.Sprint(v)
}
