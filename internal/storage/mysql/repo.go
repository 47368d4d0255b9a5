package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"yacht_automate/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return "{}"
	}
	return string(b)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// isDuplicate reports a primary or unique key violation (ER_DUP_ENTRY).
func isDuplicate(err error) bool {
	var me *gomysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// Repo implements domain.Store on MySQL. The *sql.DB stays private.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- tenants ----

func (r *Repo) UpsertTenant(ctx context.Context, t domain.Tenant) (domain.Tenant, error) {
	_, err := r.db.ExecContext(ctx, upsertTenantSQL,
		t.ID,
		t.Name,
		valStr(t.SMTPHost),
		valInt(t.SMTPPort),
		valStr(t.SMTPUser),
		valStr(t.SMTPPass),
		valStr(t.FromName),
		valStr(t.FromEmail),
	)
	if err != nil {
		return domain.Tenant{}, err
	}
	return r.GetTenant(ctx, t.ID)
}

func (r *Repo) GetTenant(ctx context.Context, id string) (domain.Tenant, error) {
	var t domain.Tenant
	var host, user, pass, fromName, fromEmail sql.NullString
	var port sql.NullInt64
	err := r.db.QueryRowContext(ctx, getTenantSQL, id).Scan(
		&t.ID, &t.Name, &host, &port, &user, &pass, &fromName, &fromEmail, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	if err != nil {
		return domain.Tenant{}, err
	}
	t.SMTPHost, t.SMTPUser, t.SMTPPass = strPtr(host), strPtr(user), strPtr(pass)
	t.FromName, t.FromEmail = strPtr(fromName), strPtr(fromEmail)
	if port.Valid {
		p := int(port.Int64)
		t.SMTPPort = &p
	}
	return t, nil
}

// ---- yachts ----

func (r *Repo) CreateYacht(ctx context.Context, y domain.Yacht) (domain.Yacht, error) {
	if y.ID == "" {
		y.ID = uuid.NewString()
	}
	if y.Currency == "" {
		y.Currency = "EUR"
	}
	_, err := r.db.ExecContext(ctx, insertYachtSQL,
		y.ID, y.TenantID, y.Name, y.Builder, y.Type, y.LengthM, string(y.Region),
		y.Cabins, y.Guests, y.WeeklyRate, y.Currency,
	)
	if isDuplicate(err) {
		return domain.Yacht{}, fmt.Errorf("insert yacht %q: id %s: %w", y.Name, y.ID, domain.ErrConflict)
	}
	if err != nil {
		return domain.Yacht{}, fmt.Errorf("insert yacht %q: %w", y.Name, err)
	}
	return r.GetYacht(ctx, y.ID)
}

type scanner interface{ Scan(dest ...any) error }

func scanYacht(s scanner) (domain.Yacht, error) {
	var y domain.Yacht
	var area string
	if err := s.Scan(
		&y.ID, &y.TenantID, &y.Name, &y.Builder, &y.Type, &y.LengthM, &area,
		&y.Cabins, &y.Guests, &y.WeeklyRate, &y.Currency, &y.CreatedAt, &y.UpdatedAt,
	); err != nil {
		return domain.Yacht{}, err
	}
	y.Region = domain.Region(area)
	return y, nil
}

func (r *Repo) GetYacht(ctx context.Context, id string) (domain.Yacht, error) {
	y, err := scanYacht(r.db.QueryRowContext(ctx, getYachtSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Yacht{}, domain.ErrNotFound
	}
	return y, err
}

// buildYachtWhere returns the WHERE clause and its args for f, tenant first.
func buildYachtWhere(tenantID string, f domain.YachtFilter) (string, []any) {
	conds := []string{"tenant_id = ?"}
	args := []any{tenantID}

	if f.Region != nil && *f.Region != "" {
		conds = append(conds, "LOWER(area) = LOWER(?)")
		args = append(args, string(*f.Region))
	}
	if f.Q != nil && *f.Q != "" {
		like := "%" + *f.Q + "%"
		conds = append(conds, "(LOWER(name) LIKE LOWER(?) OR LOWER(builder) LIKE LOWER(?) OR LOWER(type) LIKE LOWER(?))")
		args = append(args, like, like, like)
	}
	if f.Type != nil && *f.Type != "" {
		conds = append(conds, "LOWER(type) = LOWER(?)")
		args = append(args, *f.Type)
	}
	if f.Guests > 0 {
		if f.StrictGuests {
			conds = append(conds, "guests >= ? AND (guests - ?) <= 2")
			args = append(args, f.Guests, f.Guests)
		} else {
			conds = append(conds, "guests >= ?")
			args = append(args, f.Guests)
		}
	}
	if f.MinLength > 0 {
		conds = append(conds, "length_m >= ?")
		args = append(args, f.MinLength)
	}
	if f.MaxLength > 0 {
		conds = append(conds, "length_m <= ?")
		args = append(args, f.MaxLength)
	}
	if f.MaxPrice > 0 {
		conds = append(conds, "weekly_rate <= ?")
		args = append(args, f.MaxPrice)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *Repo) SearchYachts(ctx context.Context, tenantID string, f domain.YachtFilter) (domain.YachtPage, error) {
	where, args := buildYachtWhere(tenantID, f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM yachts"+where, args...).Scan(&total); err != nil {
		return domain.YachtPage{}, err
	}

	q := "SELECT " + yachtColumns + " FROM yachts" + where + " ORDER BY weekly_rate ASC, id ASC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			q += " OFFSET ?"
			args = append(args, f.Offset)
		}
	} else if f.Offset > 0 {
		// MySQL has no OFFSET without LIMIT
		q += " LIMIT 18446744073709551615 OFFSET ?"
		args = append(args, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return domain.YachtPage{}, err
	}
	defer rows.Close()

	var out []domain.Yacht
	for rows.Next() {
		y, err := scanYacht(rows)
		if err != nil {
			return domain.YachtPage{}, err
		}
		out = append(out, y)
	}
	if err := rows.Err(); err != nil {
		return domain.YachtPage{}, err
	}
	return domain.YachtPage{Items: out, Total: total}, nil
}

// ---- leads ----

func (r *Repo) CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = domain.LeadStatusNew
	}
	_, err := r.db.ExecContext(ctx, insertLeadSQL,
		l.ID, l.TenantID, l.Email, valStr(l.Name), l.Notes, l.PartySize,
		valStr(l.Location), valStr(l.Dates), valInt64(l.Budget), l.Status,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	return r.GetLead(ctx, l.ID)
}

func (r *Repo) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	var l domain.Lead
	var name, location, dates sql.NullString
	var budget sql.NullInt64
	err := r.db.QueryRowContext(ctx, getLeadSQL, id).Scan(
		&l.ID, &l.TenantID, &l.Email, &name, &l.Notes, &l.PartySize,
		&location, &dates, &budget, &l.Status, &l.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Lead{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, err
	}
	l.Name, l.Location, l.Dates = strPtr(name), strPtr(location), strPtr(dates)
	if budget.Valid {
		b := budget.Int64
		l.Budget = &b
	}
	return l, nil
}

// ---- quotes ----

func (r *Repo) CreateQuote(ctx context.Context, q domain.Quote) (domain.Quote, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertQuoteSQL,
		q.ID, q.TenantID, valStr(q.LeadID), q.YachtID, q.Weeks,
		q.BasePrice, q.APA, q.VAT, q.Extras, q.Total, q.Currency,
	)
	if err != nil {
		return domain.Quote{}, err
	}
	return r.GetQuote(ctx, q.ID)
}

func (r *Repo) GetQuote(ctx context.Context, id string) (domain.Quote, error) {
	var q domain.Quote
	var leadID sql.NullString
	err := r.db.QueryRowContext(ctx, getQuoteSQL, id).Scan(
		&q.ID, &q.TenantID, &leadID, &q.YachtID, &q.Weeks,
		&q.BasePrice, &q.APA, &q.VAT, &q.Extras, &q.Total, &q.Currency, &q.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Quote{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Quote{}, err
	}
	q.LeadID = strPtr(leadID)
	return q, nil
}

// ---- events & dead letters ----

func (r *Repo) LogEvent(ctx context.Context, e domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertEventSQL, e.ID, e.TenantID, e.Type, valStr(e.EntityID), valJSON(e.Payload))
	return err
}

func (r *Repo) StoreDeadLetter(ctx context.Context, d domain.DeadLetter) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertDeadLetterSQL, d.ID, d.TenantID, d.Kind, valJSON(d.Payload), d.Error, d.Attempts)
	return err
}
