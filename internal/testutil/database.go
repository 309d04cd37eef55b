package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB connects to the eventcheckout_test database on localhost:3306
// and skips the test when it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/eventcheckout_test?parseTime=true&loc=UTC"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

var tablesInDeleteOrder = []string{
	"InvoiceLineItem",
	"EventEnrollmentWaitlist",
	"EventEnrollment",
	"EventCheckoutAttendee",
	"EventCheckout",
	"DiscountCodeEvent",
	"DiscountCode",
	"Voucher",
	"EmployeeRole",
	"Employee",
	"Company",
	"EventSession",
	"Event",
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	for _, table := range tablesInDeleteOrder {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema used by the repositories.
func SetupTestTables(t *testing.T, db *sql.DB) {
	tables := []struct {
		name  string
		query string
	}{
		{"Company", `
		CREATE TABLE IF NOT EXISTS Company (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			uuid CHAR(36) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
		{"Employee", `
		CREATE TABLE IF NOT EXISTS Employee (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			companyId BIGINT NOT NULL,
			email VARCHAR(180) NOT NULL,
			firstName VARCHAR(100) NOT NULL,
			lastName VARCHAR(100) NOT NULL,
			INDEX idx_company_email (companyId, email)
		)`},
		{"EmployeeRole", `
		CREATE TABLE IF NOT EXISTS EmployeeRole (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			employeeId BIGINT NOT NULL,
			role VARCHAR(64) NOT NULL,
			UNIQUE KEY uniq_employee_role (employeeId, role)
		)`},
		{"Event", `
		CREATE TABLE IF NOT EXISTS Event (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			uuid CHAR(36) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
			isVoucherEligible TINYINT(1) NOT NULL DEFAULT 0
		)`},
		{"EventSession", `
		CREATE TABLE IF NOT EXISTS EventSession (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			uuid CHAR(36) NOT NULL UNIQUE,
			eventId BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			maxEnrollments INT NOT NULL DEFAULT 0,
			startDate DATETIME NOT NULL,
			endDate DATETIME NOT NULL,
			INDEX idx_event (eventId)
		)`},
		{"EventCheckout", `
		CREATE TABLE IF NOT EXISTS EventCheckout (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			uuid CHAR(36) NOT NULL UNIQUE,
			companyId BIGINT NOT NULL,
			createdById BIGINT NOT NULL,
			eventSessionId BIGINT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'IN_PROGRESS',
			reservationExpiresAt DATETIME NULL,
			finalizedAt DATETIME NULL,
			confirmationNumber VARCHAR(32) NULL UNIQUE,
			amount DECIMAL(10,2) NULL,
			contactName VARCHAR(255) NULL,
			contactEmail VARCHAR(180) NULL,
			contactPhone VARCHAR(50) NULL,
			groupNotes TEXT NULL,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_session_status (eventSessionId, status),
			INDEX idx_owner (createdById, eventSessionId, companyId, status)
		)`},
		{"EventCheckoutAttendee", `
		CREATE TABLE IF NOT EXISTS EventCheckoutAttendee (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			eventCheckoutId BIGINT NOT NULL,
			email VARCHAR(180) NULL,
			firstName VARCHAR(100) NULL,
			lastName VARCHAR(100) NULL,
			specialRequests TEXT NULL,
			isSelected TINYINT(1) NOT NULL DEFAULT 0,
			isWaitlist TINYINT(1) NOT NULL DEFAULT 0,
			FOREIGN KEY (eventCheckoutId) REFERENCES EventCheckout(id) ON DELETE CASCADE
		)`},
		{"EventEnrollment", `
		CREATE TABLE IF NOT EXISTS EventEnrollment (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			eventSessionId BIGINT NOT NULL,
			employeeId BIGINT NULL,
			email VARCHAR(180) NULL,
			firstName VARCHAR(100) NULL,
			lastName VARCHAR(100) NULL,
			specialRequests TEXT NULL,
			eventCheckoutId BIGINT NOT NULL,
			enrolledAt DATETIME NOT NULL,
			INDEX idx_session_employee (eventSessionId, employeeId),
			INDEX idx_session_email (eventSessionId, email)
		)`},
		{"EventEnrollmentWaitlist", `
		CREATE TABLE IF NOT EXISTS EventEnrollmentWaitlist (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			eventSessionId BIGINT NOT NULL,
			employeeId BIGINT NULL,
			email VARCHAR(180) NULL,
			firstName VARCHAR(100) NULL,
			lastName VARCHAR(100) NULL,
			specialRequests TEXT NULL,
			waitlistPosition INT NOT NULL,
			seatPrice DECIMAL(10,2) NOT NULL,
			originalCheckoutId BIGINT NOT NULL,
			waitlistedAt DATETIME NOT NULL,
			UNIQUE KEY uniq_session_position (eventSessionId, waitlistPosition)
		)`},
		{"DiscountCode", `
		CREATE TABLE IF NOT EXISTS DiscountCode (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			code VARCHAR(64) NOT NULL,
			isActive TINYINT(1) NOT NULL DEFAULT 1,
			startDate DATETIME NULL,
			endDate DATETIME NULL,
			maximumUses INT NULL,
			minimumPurchaseAmount DECIMAL(10,2) NULL,
			discountType VARCHAR(20) NOT NULL,
			discountValue DECIMAL(10,2) NOT NULL,
			deletedAt DATETIME NULL,
			INDEX idx_code (code)
		)`},
		{"DiscountCodeEvent", `
		CREATE TABLE IF NOT EXISTS DiscountCodeEvent (
			discountCodeId BIGINT NOT NULL,
			eventId BIGINT NOT NULL,
			PRIMARY KEY (discountCodeId, eventId)
		)`},
		{"Voucher", `
		CREATE TABLE IF NOT EXISTS Voucher (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			companyId BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			isActive TINYINT(1) NOT NULL DEFAULT 1,
			startDate DATETIME NULL,
			endDate DATETIME NULL,
			totalSeats INT NOT NULL DEFAULT 0,
			deletedAt DATETIME NULL,
			INDEX idx_company (companyId)
		)`},
		{"InvoiceLineItem", `
		CREATE TABLE IF NOT EXISTS InvoiceLineItem (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			eventCheckoutId BIGINT NOT NULL,
			companyId BIGINT NOT NULL,
			invoiceNumber VARCHAR(64) NOT NULL,
			description VARCHAR(255) NOT NULL,
			discountCode VARCHAR(64) NULL,
			isVoucher TINYINT(1) NOT NULL DEFAULT 0,
			amount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
			createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_discount_code (discountCode),
			INDEX idx_company_voucher (companyId, isVoucher)
		)`},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
