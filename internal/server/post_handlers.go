package server

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"azaunur/internal/models"
	"azaunur/internal/service"
)

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// CreatePost handles POST /api/posts. Accepts multipart form data with an
// optional image attachment, or a plain JSON body.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in := service.CreatePostInput{UserID: currentUserID(c)}

	if header, err := c.FormFile("image"); err == nil && header != nil {
		content, readErr := readMultipartFile(header)
		if readErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded image"))
		}
		in.Image = content
	}

	in.Body = c.FormValue("body")
	if in.Body == "" {
		var req struct {
			Body string `json:"body"`
		}
		if parseErr := c.BodyParser(&req); parseErr == nil {
			in.Body = req.Body
		}
	}

	post, err := s.postService.CreatePost(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, comments, err := s.postService.GetPost(c.Context(), postID, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		Body string `json:"body"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID: currentUserID(c),
		PostID: postID,
		Body:   req.Body,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.postService.DeletePost(c.Context(), currentUserID(c), postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// GetUserPosts handles GET /api/users/:handle/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	author, err := s.userRepo.GetByHandle(c.Context(), c.Params("handle"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	posts, err := s.postService.UserPosts(c.Context(), author.ID, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// ViewPost handles POST /api/posts/:id/view. Records an impression without
// loading the full post page.
func (s *Server) ViewPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	exists, err := s.postRepo.Exists(c.Context(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if !exists {
		return models.RespondWithAppError(c, models.NewNotFoundError("post", postID))
	}

	if err := s.engagementRepo.MarkViews(c.Context(), currentUserID(c), []uint{postID}); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"viewed": true})
}
