package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"backoffice/internal/admin"
	"backoffice/internal/app"
	"backoffice/internal/core/entity"
	"backoffice/internal/domain"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/rubro"
	"backoffice/internal/domain/catalogs/subrubro"
	"backoffice/internal/domain/catalogs/taxcondition"
	"backoffice/internal/domain/catalogs/unit"
	"backoffice/internal/domain/filter"
	"backoffice/internal/metadata"
)

// errNotApplied is returned when a store operation reported its own failure
// through the notifier.
var errNotApplied = errors.New("la operación no se completó")

type cliEnv struct {
	transport admin.Transport
	notify    admin.Notifier
	registry  *metadata.Registry
	out       io.Writer
	in        *bufio.Reader
}

func (e *cliEnv) dispatch(ctx context.Context, args []string) error {
	if args[0] == "catalogs" {
		return e.printCatalogs()
	}

	def, ok := e.registry.Get(args[0])
	if !ok {
		return fmt.Errorf("catálogo desconocido %q", args[0])
	}
	if len(args) < 2 {
		return fmt.Errorf("falta el comando para %s", args[0])
	}
	cmd, rest := args[1], args[2:]

	switch def.Name {
	case app.NameRubros:
		return runCatalog[rubro.Rubro](ctx, e, admin.Rubros, def, cmd, rest)
	case app.NameSubRubros:
		return runCatalog[subrubro.SubRubro](ctx, e, admin.SubRubros, def, cmd, rest)
	case app.NameUnits:
		return runCatalog[unit.Unit](ctx, e, admin.Units, def, cmd, rest)
	case app.NameTaxConditions:
		return runCatalog[taxcondition.TaxCondition](ctx, e, admin.TaxConditions, def, cmd, rest)
	case app.NameProducts:
		return runCatalog[product.Product](ctx, e, admin.Products, def, cmd, rest)
	default:
		return fmt.Errorf("catálogo sin comandos %q", def.Name)
	}
}

func (e *cliEnv) printCatalogs() error {
	w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATÁLOGO\tNOMBRE\tRUTA\tCÓDIGO")
	for _, def := range e.registry.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Name, def.Label, def.Path, def.CodeField)
	}
	return w.Flush()
}

// catalogCommands runs CLI commands against one catalog.
type catalogCommands[T entity.Entity[T]] struct {
	env   *cliEnv
	def   metadata.EntityDef
	svc   *admin.EntityService[T]
	store *admin.Store[T]
}

func runCatalog[T entity.Entity[T]](ctx context.Context, env *cliEnv, desc admin.Descriptor, def metadata.EntityDef, cmd string, args []string) error {
	svc := admin.NewEntityService[T](env.transport, desc)
	c := &catalogCommands[T]{
		env:   env,
		def:   def,
		svc:   svc,
		store: admin.NewStore[T](svc, desc, env.notify),
	}
	return c.run(ctx, cmd, args)
}

func (c *catalogCommands[T]) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		return c.list(ctx, args)
	case "get":
		return c.withID(args, func(id string) error { return c.get(ctx, id) })
	case "create":
		return c.create(ctx, args)
	case "update":
		if len(args) < 2 {
			return errors.New("uso: update <id> campo=valor...")
		}
		return c.update(ctx, args[0], args[1:])
	case "retire":
		return c.withID(args, func(id string) error { return applied(c.store.Retire(ctx, id)) })
	case "reactivate":
		return c.withID(args, func(id string) error { return c.reactivate(ctx, id) })
	case "clone":
		if len(args) != 2 {
			return errors.New("uso: clone <id> <codigo>")
		}
		return c.clone(ctx, args[0], args[1])
	case "next-code":
		return c.nextCode(ctx)
	case "history":
		return c.history(ctx, args)
	case "fields":
		return c.fields()
	default:
		return fmt.Errorf("comando desconocido %q", cmd)
	}
}

func (c *catalogCommands[T]) withID(args []string, fn func(id string) error) error {
	if len(args) != 1 || args[0] == "" {
		return errors.New("se requiere exactamente un id")
	}
	return fn(args[0])
}

func (c *catalogCommands[T]) list(ctx context.Context, args []string) error {
	state := filter.All
	if len(args) > 0 {
		s, err := filter.ParseState(args[0])
		if err != nil {
			return err
		}
		state = s
	}

	if !c.store.Load(ctx) {
		return errNotApplied
	}

	var items []T
	switch state {
	case filter.Active:
		items = c.store.Active()
	case filter.Retired:
		items = c.store.Retired()
	default:
		items = c.store.Items()
	}

	w := tabwriter.NewWriter(c.env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\tNOMBRE\tESTADO\n", strings.ToUpper(c.def.CodeField))
	for _, e := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.EntityID(), e.Code(), displayName(e), stateLabel(e))
	}
	return w.Flush()
}

func (c *catalogCommands[T]) get(ctx context.Context, id string) error {
	e, err := c.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.printJSON(e)
}

func (c *catalogCommands[T]) create(ctx context.Context, args []string) error {
	patch, err := parseAssignments(c.def, args)
	if err != nil {
		return err
	}
	var zero T
	draft, err := domain.ApplyPatch(zero, patch)
	if err != nil {
		return err
	}
	return c.save(ctx, draft)
}

func (c *catalogCommands[T]) update(ctx context.Context, id string, args []string) error {
	patch, err := parseAssignments(c.def, args)
	if err != nil {
		return err
	}

	current, err := c.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	editable := current.Mutable()
	for key := range patch {
		if _, ok := editable[key]; !ok {
			return fmt.Errorf("el campo %q no es editable", key)
		}
	}

	draft, err := domain.ApplyPatch(current, patch)
	if err != nil {
		return err
	}
	return c.save(ctx, draft)
}

func (c *catalogCommands[T]) reactivate(ctx context.Context, id string) error {
	current, err := c.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if !current.IsRetired() {
		c.env.notify.Info("Sin cambios", fmt.Sprintf("El registro %s ya está activo.", id))
		return nil
	}
	return applied(c.store.ToggleRetired(ctx, current))
}

func (c *catalogCommands[T]) clone(ctx context.Context, id, code string) error {
	source, err := c.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	c.store.SelectForClone(source)
	draft, _ := c.store.Selected()
	return c.save(ctx, draft.WithCode(code))
}

// save runs Store.Save and resolves a collision with a retired record by
// asking whether to reactivate it.
func (c *catalogCommands[T]) save(ctx context.Context, draft T) error {
	if c.store.Save(ctx, draft) {
		return nil
	}

	conflict, ok := c.store.Conflict()
	if !ok {
		return errNotApplied
	}

	fmt.Fprintf(c.env.out, "El %s '%s' pertenece a un registro dado de baja (id %s). ¿Reactivar? [y/N] ",
		c.def.CodeField, draft.Code(), conflict.InactiveID)
	if !confirm(c.env.in) {
		c.store.CancelReactivation()
		c.env.notify.Info("Operación cancelada", "")
		return nil
	}
	return applied(c.store.ConfirmReactivation(ctx))
}

func (c *catalogCommands[T]) nextCode(ctx context.Context) error {
	n, err := c.svc.NextCode(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.env.out, n)
	return nil
}

func (c *catalogCommands[T]) history(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("uso: history <id> [limite]")
	}
	limit := 0
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("límite inválido %q", args[1])
		}
		limit = n
	}

	entries, err := c.svc.History(ctx, args[0], limit)
	if err != nil {
		return err
	}
	printHistory(c.env.out, entries)
	return nil
}

func (c *catalogCommands[T]) fields() error {
	w := tabwriter.NewWriter(c.env.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CAMPO\tTIPO\tOBLIGATORIO\tMÁX")
	for _, f := range c.def.Fields {
		if f.ReadOnly {
			continue
		}
		maxLen := ""
		if f.MaxLength > 0 {
			maxLen = strconv.Itoa(f.MaxLength)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.Type, yesNo(f.Required), maxLen)
	}
	for _, l := range c.def.Lists {
		fmt.Fprintf(w, "%s\tlist\t%s\t\n", l.Name, yesNo(false))
	}
	return w.Flush()
}

func (c *catalogCommands[T]) printJSON(v any) error {
	enc := json.NewEncoder(c.env.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseAssignments turns campo=valor arguments into a patch. Text fields are
// taken literally so codes like 001 keep their zeros; other values are parsed
// as JSON and fall back to the raw text.
func parseAssignments(def metadata.EntityDef, args []string) (entity.Patch, error) {
	patch := make(entity.Patch, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argumento inválido %q (se espera campo=valor)", arg)
		}

		field, known := def.Field(key)
		if !known && !hasList(def, key) {
			return nil, fmt.Errorf("campo desconocido %q", key)
		}

		switch {
		case known && field.Optional && raw == "null":
			patch[key] = nil
		case known && (field.Type == metadata.TypeString || field.Type == metadata.TypeReference):
			patch[key] = raw
		default:
			patch[key] = parseValue(raw)
		}
	}
	return patch, nil
}

func parseValue(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}

func hasList(def metadata.EntityDef, name string) bool {
	for _, l := range def.Lists {
		if l.Name == name {
			return true
		}
	}
	return false
}

func confirm(in *bufio.Reader) bool {
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "si", "sí":
		return true
	default:
		return false
	}
}

func applied(ok bool) error {
	if !ok {
		return errNotApplied
	}
	return nil
}

func displayName(v any) string {
	if s, ok := audit.Snapshot(v)["nombre"].(string); ok {
		return s
	}
	return ""
}

func stateLabel[T entity.Entity[T]](e T) string {
	if e.IsRetired() {
		return "inactivo"
	}
	return "activo"
}

func printHistory(out io.Writer, entries []audit.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "Sin movimientos.")
		return
	}
	for _, e := range entries {
		var changes bytes.Buffer
		if len(e.Changes) > 0 && json.Compact(&changes, e.Changes) != nil {
			changes.Reset()
			changes.Write(e.Changes)
		}
		fmt.Fprintf(out, "%s  %-10s  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, changes.String())
	}
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
