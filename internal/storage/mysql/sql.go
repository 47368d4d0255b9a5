package mysql

const upsertTenantSQL = `
INSERT INTO tenants
  (id, name, smtp_host, smtp_port, smtp_user, smtp_pass, from_name, from_email)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  smtp_host  = VALUES(smtp_host),
  smtp_port  = VALUES(smtp_port),
  smtp_user  = VALUES(smtp_user),
  smtp_pass  = VALUES(smtp_pass),
  from_name  = VALUES(from_name),
  from_email = VALUES(from_email),
  updated_at = CURRENT_TIMESTAMP
`

const getTenantSQL = `
SELECT id, name, smtp_host, smtp_port, smtp_user, smtp_pass, from_name, from_email, created_at, updated_at
FROM tenants
WHERE id = ?
`

const insertYachtSQL = `
INSERT INTO yachts
  (id, tenant_id, name, builder, type, length_m, area, cabins, guests, weekly_rate, currency)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const yachtColumns = `id, tenant_id, name, builder, type, length_m, area, cabins, guests, weekly_rate, currency, created_at, updated_at`

const getYachtSQL = `SELECT ` + yachtColumns + ` FROM yachts WHERE id = ?`

const insertLeadSQL = `
INSERT INTO leads
  (id, tenant_id, email, name, notes, party_size, location, dates, budget, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getLeadSQL = `
SELECT id, tenant_id, email, name, notes, party_size, location, dates, budget, status, created_at
FROM leads
WHERE id = ?
`

const insertQuoteSQL = `
INSERT INTO quotes
  (id, tenant_id, lead_id, yacht_id, weeks, base_price, apa, vat, extras, total, currency)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getQuoteSQL = `
SELECT id, tenant_id, lead_id, yacht_id, weeks, base_price, apa, vat, extras, total, currency, created_at
FROM quotes
WHERE id = ?
`

const insertEventSQL = `
INSERT INTO events (id, tenant_id, type, entity_id, payload)
VALUES (?, ?, ?, ?, ?)
`

const insertDeadLetterSQL = `
INSERT INTO dead_letters (id, tenant_id, kind, payload, error, attempts)
VALUES (?, ?, ?, ?, ?, ?)
`
