package services

// Services defined in this package:
// - AuthService: Sign-in assertion exchange, session resolution and sign-out
// - UserService: Directory account management and lookups
// - AdviseeService: Adviser assignment workflow
// - AnnouncementService: Portal announcements
