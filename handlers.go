package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"befin/models"
	"befin/pkg/analytics"
	"befin/pkg/category"
	"befin/pkg/ledger"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Server alive") })
	r.POST("/auth/register", registerHandler)
	r.POST("/auth/login", loginHandler)
	r.POST("/auth/refresh", refreshHandler)
	r.POST("/auth/logout", logoutHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)

	authGroup.POST("/accounts", createAccountHandler)
	authGroup.GET("/accounts", listAccountsHandler)
	authGroup.DELETE("/accounts/:id", deleteAccountHandler)

	authGroup.GET("/categories", categoryTreeHandler)
	authGroup.POST("/categories", createCategoryHandler)
	authGroup.POST("/categories/bulk", createCategoryBulkHandler)

	authGroup.POST("/transactions", createTransactionHandler)
	authGroup.GET("/transactions", listTransactionsHandler)
	authGroup.DELETE("/transactions/:id", deleteTransactionHandler)
	authGroup.POST("/transactions/:id/restore", restoreTransactionHandler)

	authGroup.GET("/analytics/month", monthlyAnalyticsHandler)
	authGroup.GET("/analytics/year", yearlyAnalyticsHandler)
	authGroup.GET("/analytics/top", topSpendingHandler)
	authGroup.GET("/analytics/month-compare", monthCompareHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		uid, ok := claims["user_id"].(float64)
		if !ok || uid <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		c.Set("user_id", uint(uid))
		c.Next()
	}
}

// userIDFromContext returns the authenticated user id set by the middleware.
func userIDFromContext(c *gin.Context) (uint, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// businessStatus maps engine error kinds to HTTP statuses; anything
// unrecognized is a 500.
func businessStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, ledger.ErrCategoryNotFound),
		errors.Is(err, category.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrTypeMismatch),
		errors.Is(err, ledger.ErrLeafRequired),
		errors.Is(err, ledger.ErrInvalidAccount),
		errors.Is(err, category.ErrInvalidHierarchy),
		errors.Is(err, category.ErrTypeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func signToken(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}

func registerHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := RegisterUser(req.Email, req.Password)
	if err != nil {
		c.JSON(businessStatus(err), gin.H{"error": err.Error()})
		return
	}
	tokenString, err := signToken(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tokenString, err := signToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": refreshToken})
}

// refreshHandler exchanges a refresh token for a new access token and
// rotates the refresh token.
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tokenString, err := signToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate: revoke the used token, hand out a fresh one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// logoutHandler revokes the given refresh token.
func logoutHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func meHandler(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing user id"})
		return
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                        user.ID,
		"email":                     user.Email,
		"target_investment_percent": user.TargetInvestmentPercent,
	})
}

func createAccountHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	var req struct {
		Name    string          `json:"name" binding:"required"`
		Type    string          `json:"type" binding:"required,oneof=SAVING CURRENT INVESTMENT"`
		Balance decimal.Decimal `json:"balance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	acc := models.Account{
		UserID:  userID,
		Name:    req.Name,
		Type:    models.AccountType(req.Type),
		Balance: req.Balance,
	}
	if err := db.Create(&acc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, acc)
}

func listAccountsHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	var accounts []models.Account
	err := db.Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("created_at asc").Find(&accounts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// deleteAccountHandler soft-deletes an account. The balance is left as is;
// ledger reversals keep updating the row regardless.
func deleteAccountHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	now := time.Now().UTC()
	res := db.Model(&models.Account{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", id, userID).
		Update("deleted_at", &now)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

func categoryTreeHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	tree, err := category.Tree(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, tree)
}

func createCategoryHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	var req struct {
		Name     string `json:"name" binding:"required"`
		Type     string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := category.Create(db, userID, category.CreateInput{
		Name:     req.Name,
		Type:     models.CategoryType(req.Type),
		ParentID: req.ParentID,
	})
	if err != nil {
		c.JSON(businessStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cat)
}

func createCategoryBulkHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	var req struct {
		Name     string   `json:"name" binding:"required"`
		Type     string   `json:"type" binding:"required,oneof=INCOME EXPENSE"`
		Children []string `json:"children"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	root, err := category.CreateWithChildren(db, userID, category.CreateWithChildrenInput{
		Name:     req.Name,
		Type:     models.CategoryType(req.Type),
		Children: req.Children,
	})
	if err != nil {
		c.JSON(businessStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, root)
}

func createTransactionHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	var req struct {
		Type          string          `json:"type" binding:"required,oneof=INCOME EXPENSE TRANSFER INVESTMENT"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		Date          string          `json:"date" binding:"required"`
		CategoryID    uint            `json:"category_id" binding:"required"`
		FromAccountID *uint           `json:"from_account_id"`
		ToAccountID   *uint           `json:"to_account_id"`
		Note          string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be RFC3339"})
		return
	}
	trx, err := ledger.Create(db, userID, ledger.CreateRequest{
		Type:          models.TransactionType(req.Type),
		Amount:        req.Amount,
		Date:          date,
		CategoryID:    req.CategoryID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Note:          req.Note,
	})
	if err != nil {
		c.JSON(businessStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, trx)
}

func listTransactionsHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	items, err := ledger.List(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func deleteTransactionHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := ledger.Delete(db, userID, uint(id)); err != nil {
		c.JSON(businessStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

func restoreTransactionHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := ledger.Restore(db, userID, uint(id)); err != nil {
		c.JSON(businessStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction restored"})
}

// yearMonthParams pulls the year and month query params.
func yearMonthParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month are required"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month are required"})
		return 0, 0, false
	}
	return year, month, true
}

func monthlyAnalyticsHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	year, month, ok := yearMonthParams(c)
	if !ok {
		return
	}
	report, err := analytics.Monthly(db, userID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func yearlyAnalyticsHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return
	}
	summary, aerr := analytics.Yearly(db, userID, year)
	if aerr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func topSpendingHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	year, month, ok := yearMonthParams(c)
	if !ok {
		return
	}
	top, err := analytics.TopSpending(db, userID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, top)
}

func monthCompareHandler(c *gin.Context) {
	userID, _ := userIDFromContext(c)
	year, month, ok := yearMonthParams(c)
	if !ok {
		return
	}
	cmp, err := analytics.MonthCompare(db, userID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, cmp)
}
