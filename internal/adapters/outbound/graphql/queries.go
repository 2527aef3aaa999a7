package graphql

const ordersAvailableToReturnQuery = `query ordersAvailableToReturn($page: Int!) {
  ordersAvailableToReturn(page: $page) {
    list {
      orderId
      creationDate
      currencyCode
      invoicedItems { id name imageUrl refId sellerName orderItemIndex quantity sellingPrice tax }
      processedItems { itemIndex quantity }
    }
    paging { total perPage currentPage pages }
  }
}`

const orderToReturnSummaryQuery = `query orderToReturnSummary($orderId: ID!) {
  orderToReturnSummary(orderId: $orderId) {
    orderId
    creationDate
    currencyCode
    invoicedItems { id name imageUrl refId sellerName orderItemIndex quantity sellingPrice tax }
    processedItems { itemIndex quantity }
  }
}`

const createReturnRequestMutation = `mutation createReturnRequest($returnRequest: ReturnRequestInput!) {
  createReturnRequest(returnRequest: $returnRequest) {
    returnRequestId
  }
}`

const returnRequestQuery = `query returnRequestDetails($requestId: ID!) {
  returnRequestDetails(requestId: $requestId) {
    id
    orderId
    status
    dateSubmitted
    cultureInfoData { currencyCode }
    customerProfileData { name email phoneNumber }
    pickupReturnData { addressId address city state zipCode country }
    refundPaymentData { refundPaymentMethod iban accountHolderName }
    userComment
    items {
      orderItemIndex name imageUrl refId sellerName quantity sellingPrice tax condition
      returnReason { reason otherReason }
      status
    }
    refundStatusData { status comment visibleForCustomer submittedBy createdAt }
  }
}`

const updateReturnRequestStatusMutation = `mutation updateReturnRequestStatus($requestId: ID!, $status: Status!, $comment: ReturnRequestCommentInput) {
  updateReturnRequestStatus(requestId: $requestId, status: $status, comment: $comment) {
    id
  }
}`
