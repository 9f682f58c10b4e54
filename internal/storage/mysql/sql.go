package mysql

const createApprovalsSQL = `
CREATE TABLE IF NOT EXISTS approvals (
  review_id  VARCHAR(64) NOT NULL PRIMARY KEY,
  approved   TINYINT(1)  NOT NULL DEFAULT 0,
  updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)
`

const upsertApprovalSQL = `
INSERT INTO approvals (review_id, approved)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  approved   = VALUES(approved),
  updated_at = CURRENT_TIMESTAMP
`

const selectApprovalsSQL = `
SELECT review_id, approved FROM approvals
`
