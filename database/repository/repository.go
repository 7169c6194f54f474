package repository

import (
	bookingRepo "groundbook/database/repository/booking"
	groundRepo "groundbook/database/repository/ground"
	notificationRepo "groundbook/database/repository/notification"
	paymentRepo "groundbook/database/repository/payment"
	reviewRepo "groundbook/database/repository/review"
	userRepo "groundbook/database/repository/user"
)

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

type StatusPatch = bookingRepo.StatusPatch

var ErrStatusMismatch = bookingRepo.ErrStatusMismatch

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

// Re-export the GroundRepository interface and constructor.
type GroundRepository = groundRepo.GroundRepository

var NewMongoGroundRepo = groundRepo.NewMongoGroundRepo

// Re-export the NotificationRepository interface and constructor.
type NotificationRepository = notificationRepo.NotificationRepository

var NewMongoNotificationRepo = notificationRepo.NewMongoNotificationRepo

// Re-export the PaymentRepository interface and constructor.
type PaymentRepository = paymentRepo.PaymentRepository

var NewMongoPaymentRepo = paymentRepo.NewMongoPaymentRepo

// Re-export the ReviewRepository interface and constructor.
type ReviewRepository = reviewRepo.ReviewRepository

var NewMongoReviewRepo = reviewRepo.NewMongoReviewRepo

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewMongoUserRepository = userRepo.NewMongoUserRepo
